package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds the flattened string tables for every language.
type Catalog struct {
	strings map[Lang]map[string]string
	lists   map[Lang]map[string][]string
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(localeFS)
}

// LoadFromFS loads locales/<lang>.json files from fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.json")
	if err != nil {
		return nil, fmt.Errorf("i18n: glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("i18n: no locale files found")
	}
	sort.Strings(paths)

	c := &Catalog{
		strings: map[Lang]map[string]string{},
		lists:   map[Lang]map[string][]string{},
	}

	for _, p := range paths {
		lang, ok := Parse(strings.TrimSuffix(path.Base(p), ".json"))
		if !ok {
			return nil, fmt.Errorf("i18n: %s: unsupported language", p)
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", p, err)
		}

		var tree map[string]any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", p, err)
		}

		c.strings[lang] = map[string]string{}
		c.lists[lang] = map[string][]string{}
		if err := c.flatten(lang, "", tree); err != nil {
			return nil, fmt.Errorf("i18n: %s: %w", p, err)
		}
	}

	if _, ok := c.strings[Default]; !ok {
		return nil, fmt.Errorf("i18n: default language %s is not defined", Default)
	}

	return c, nil
}

func (c *Catalog) flatten(lang Lang, prefix string, node map[string]any) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			c.strings[lang][key] = val
		case []any:
			list := make([]string, 0, len(val))
			for _, item := range val {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("%s: list items must be strings", key)
				}
				list = append(list, s)
			}
			c.lists[lang][key] = list
		case map[string]any:
			if err := c.flatten(lang, key, val); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: unsupported value type %T", key, v)
		}
	}
	return nil
}

// T returns the string for key in lang, falling back to the default language
// and finally to the key itself.
func (c *Catalog) T(lang Lang, key string) string {
	if s, ok := c.strings[lang][key]; ok {
		return s
	}
	if s, ok := c.strings[Default][key]; ok {
		return s
	}
	return key
}

// List returns the string list for key in lang, with the same fallback as T.
func (c *Catalog) List(lang Lang, key string) []string {
	if l, ok := c.lists[lang][key]; ok {
		return l
	}
	return c.lists[Default][key]
}

// Has reports whether key is defined for lang.
func (c *Catalog) Has(lang Lang, key string) bool {
	_, ok := c.strings[lang][key]
	return ok
}
