// Package i18n resolves the site language and looks up localized strings.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Lang is a supported site language.
type Lang string

const (
	LangJA Lang = "ja"
	LangEN Lang = "en"
)

// Default is the language of unprefixed paths.
const Default = LangEN

// PreferenceCookie stores an explicit language choice.
const PreferenceCookie = "dh_lang"

// prefix is the path segment that selects Japanese.
const prefix = "/ja"

var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

// Parse returns the Lang for s and whether s named a supported language.
func Parse(s string) (Lang, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ja", "ja-jp":
		return LangJA, true
	case "en", "en-us", "en-gb":
		return LangEN, true
	}
	return Default, false
}

// Toggle returns the other language.
func Toggle(l Lang) Lang {
	if l == LangJA {
		return LangEN
	}
	return LangJA
}

// FromPath returns LangJA for /ja and anything below it, LangEN otherwise.
func FromPath(path string) Lang {
	if path == prefix || strings.HasPrefix(path, prefix+"/") {
		return LangJA
	}
	return LangEN
}

// SwitchPath rewrites path for language to, keeping everything after the
// language segment.
func SwitchPath(path string, to Lang) string {
	rest := stripLangSegment(path)
	if to != LangJA {
		return rest
	}
	if rest == "/" {
		return prefix
	}
	return prefix + rest
}

func stripLangSegment(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	for _, seg := range []string{"/ja", "/en"} {
		if path == seg {
			return "/"
		}
		if strings.HasPrefix(path, seg+"/") {
			return path[len(seg):]
		}
	}
	return path
}

// Match picks the best supported language for an Accept-Language header.
// Headers that match nothing resolve to Default.
func Match(acceptLanguage string) Lang {
	return MatchOr(acceptLanguage, Default)
}

// MatchOr is Match with a caller-chosen fallback.
func MatchOr(acceptLanguage string, fallback Lang) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	if supported[idx] == language.Japanese {
		return LangJA
	}
	return LangEN
}

// Preference returns the stored language choice, if any.
func Preference(r *http.Request) (Lang, bool) {
	c, err := r.Cookie(PreferenceCookie)
	if err != nil {
		return Default, false
	}
	return Parse(c.Value)
}

// SetPreference persists lang on the response.
func SetPreference(w http.ResponseWriter, lang Lang) {
	http.SetCookie(w, &http.Cookie{
		Name:     PreferenceCookie,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// ShouldRedirectRoot reports whether a request for / should be sent to /ja:
// the browser prefers Japanese and no language choice has been stored yet.
func ShouldRedirectRoot(r *http.Request) bool {
	if r.URL.Path != "/" {
		return false
	}
	if _, ok := Preference(r); ok {
		return false
	}
	return Match(r.Header.Get("Accept-Language")) == LangJA
}
