// Package format converts tracker markup into the chat platform's mrkdwn
// dialect and rewrites @login references into mention tokens. All
// transforms are total: malformed markup degrades to escaped raw text,
// never an error.
package format

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
)

// Resolver resolves a bare login to a mention token. Satisfied by
// *mention.Resolver.
type Resolver interface {
	ResolveByName(login string) (string, bool)
}

var (
	// Tracker logins: start with a lowercase letter or digit, then any
	// run of lowercase letters, digits, dash, underscore, dot.
	usernameRe = regexp.MustCompile(`@[a-z0-9][a-z0-9._-]*`)

	headingRe = regexp.MustCompile(`(?m)^h[1-6]\.\s*(.+)$`)
	quoteRe   = regexp.MustCompile(`(?m)^bq\.\s*(.+)$`)
	// A code span's closing @ must not run straight into a login
	// character, otherwise "@jdoe and @asmith" would collapse into one
	// span and neither login would survive to the mention rewrite.
	codeRe = regexp.MustCompile(`@([^@\n]+)@($|[^a-z0-9])`)
	linkRe    = regexp.MustCompile(`"([^"]+)":(https?://\S+)`)
	bulletRe  = regexp.MustCompile(`(?m)^[*#]\s+`)
	// pre tags are matched after escaping, hence the entity form.
	preRe = regexp.MustCompile(`(?s)&lt;pre&gt;(.*?)&lt;/pre&gt;`)
)

// Markup converts Textile-style tracker markup to mrkdwn. Reserved
// characters are escaped first so user text can never inject platform
// control sequences. The function is total over all input.
func Markup(text string) (out string) {
	if text == "" {
		return ""
	}
	// Conversion must never take the notification down with it: fall
	// back to the escaped raw text instead.
	defer func() {
		if r := recover(); r != nil {
			out = Escape(text)
		}
	}()

	s := Escape(text)
	s = preRe.ReplaceAllString(s, "```$1```")
	s = headingRe.ReplaceAllString(s, "*$1*")
	s = quoteRe.ReplaceAllString(s, "> $1")
	s = linkRe.ReplaceAllString(s, "<$2|$1>")
	s = codeRe.ReplaceAllString(s, "`${1}`${2}")
	s = bulletRe.ReplaceAllString(s, "• ")
	return strings.TrimSpace(s)
}

// Escape escapes the characters the platform reserves for control
// sequences, in the order the platform documents (& first).
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeHTML escapes a filename for embedding inside a <url|name> link.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// Link renders a platform hyperlink.
func Link(url, text string) string {
	return fmt.Sprintf("<%s|%s>", url, text)
}

// RewriteMentions replaces every @login occurrence that resolves through
// the directory with its mention token. Replacement is a single
// simultaneous pass over the whole text: each distinct token is matched
// as one alternative (longest first), so an already-substituted token is
// never reprocessed and "@doe" never splits "@doejane". Unresolved logins
// stay verbatim.
func RewriteMentions(text string, r Resolver) string {
	if text == "" || r == nil {
		return text
	}

	matches := usernameRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return text
	}

	replacements := make(map[string]string)
	for _, m := range matches {
		if _, seen := replacements[m]; seen {
			continue
		}
		if token, ok := r.ResolveByName(strings.TrimPrefix(m, "@")); ok {
			replacements[m] = token
		}
	}
	if len(replacements) == 0 {
		return text
	}

	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	union := regexp.MustCompile(strings.Join(keys, "|"))
	return union.ReplaceAllStringFunc(text, func(m string) string {
		return replacements[m]
	})
}

// Mentions builds the mention suffix appended to a message title: the
// project's default mentions plus, when auto-mentions is on, the resolved
// tokens of every login referenced in text. Returns "" when neither
// applies; otherwise the result starts with a space so it can be
// concatenated directly after the issue link.
func Mentions(autoMentions bool, defaultMentions, text string, r Resolver) string {
	var parts []string

	if autoMentions && r != nil {
		seen := make(map[string]struct{})
		for _, m := range usernameRe.FindAllString(text, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			if token, ok := r.ResolveByName(strings.TrimPrefix(m, "@")); ok {
				parts = append(parts, token)
			}
		}
	}

	if s := strings.TrimSpace(defaultMentions); s != "" {
		parts = append(parts, s)
	}

	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
