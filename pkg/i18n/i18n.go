// Package i18n holds the Thai and English UI strings.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported display language.
type Language string

const (
	Thai    Language = "th"
	English Language = "en"

	Default = Thai
)

// Supported lists the languages in matcher preference order.
var Supported = []Language{Thai, English}

var matcher = language.NewMatcher([]language.Tag{language.Thai, language.English})

// Match maps any BCP 47 tag or POSIX locale (en_US.UTF-8) to the closest
// supported language, falling back to Default.
func Match(raw string) Language {
	lang, ok := match(raw)
	if !ok {
		return Default
	}
	return lang
}

// Parse is the strict form of Match used for user input.
func Parse(raw string) (Language, error) {
	lang, ok := match(raw)
	if !ok {
		return "", fmt.Errorf("unsupported language %q (want th or en)", raw)
	}
	return lang, nil
}

func match(raw string) (Language, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.ReplaceAll(raw, "_", "-")
	if raw == "" {
		return "", false
	}

	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return Supported[idx], true
}

// Translator looks up strings for one language.
type Translator struct {
	lang Language
}

func New(lang Language) *Translator {
	if _, ok := catalog[lang]; !ok {
		lang = Default
	}
	return &Translator{lang: lang}
}

func (t *Translator) Language() Language {
	return t.lang
}

// T returns the translation of key, or the key itself when it is unknown.
func (t *Translator) T(key Key) string {
	if s, ok := catalog[t.lang][key]; ok {
		return s
	}
	return string(key)
}
