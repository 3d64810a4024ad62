// Package locale provides the label catalog used when rendering message
// titles and field names. Formatting always runs under the configured
// default language: callers switch the package language for the duration
// of one event and restore it on every exit path.
package locale

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English, // first tag is the fallback
	language.German,
	language.French,
}

var matcher = language.NewMatcher(supported)

var (
	mu      sync.Mutex
	current = language.English
)

// Match resolves a BCP 47 string ("de", "fr-CA") to the closest supported
// tag, falling back to English on unknown or empty input.
func Match(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// Switch sets the catalog language and returns a restore func. The package
// stays locked until restore runs, so one event's formatting never observes
// another's language. Callers must defer the restore.
func Switch(tag language.Tag) (restore func()) {
	mu.Lock()
	prev := current
	_, idx, _ := matcher.Match(tag)
	current = supported[idx]
	return func() {
		current = prev
		mu.Unlock()
	}
}

// Label returns the catalog entry for key in the current language, falling
// back to English and finally to a humanized form of the key itself.
func Label(key string) string {
	if s, ok := catalogs[current][key]; ok {
		return s
	}
	if s, ok := catalogs[language.English][key]; ok {
		return s
	}
	return humanize(key)
}

// humanize turns "field_done_ratio" into "Done ratio".
func humanize(key string) string {
	s := key
	for _, prefix := range []string{"field_", "label_"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
