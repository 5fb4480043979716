// Package htmlsanitize turns admin-authored notice bodies into HTML that is
// safe to render. Markdown is converted with goldmark and every result is
// passed through a bluemonday UGC policy.
package htmlsanitize

import (
	"bytes"
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	md = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AllowAttrs("class").OnElements("table", "code", "pre")
		policy.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	})
	return policy
}

// Sanitize strips scripts, event handlers, and unsafe URLs from s.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for direct use in templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// RenderMarkdown converts markdown to sanitized HTML. Raw HTML embedded in
// the source is dropped by goldmark before sanitizing.
func RenderMarkdown(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(Sanitize(buf.String())), nil
}

// PlainTextToHTML escapes s and keeps its line breaks.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// Excerpt returns the first n runes of the plain text of s, with an
// ellipsis when truncated. Used by list views.
func Excerpt(s string, n int) string {
	plain := strings.Join(strings.Fields(bluemonday.StrictPolicy().Sanitize(s)), " ")
	plain = html.UnescapeString(plain)
	r := []rune(plain)
	if len(r) <= n {
		return plain
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
