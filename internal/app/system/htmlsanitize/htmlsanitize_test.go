package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello, World!", "Hello, World!"},
		{"safe html", "<p><strong>Bold</strong> and <em>italic</em></p>", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"script removed", "<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
		{"code block", "<pre><code>func main() {}</code></pre>", "<pre><code>func main() {}</code></pre>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_StripsHandlersAndJavascriptURLs(t *testing.T) {
	for _, input := range []string{
		`<button onclick="alert('xss')">Click</button>`,
		`<a href="javascript:alert('xss')">Click</a>`,
		`<img src="x" onerror="alert('xss')">`,
	} {
		got := htmlsanitize.Sanitize(input)
		if strings.Contains(got, "onclick") || strings.Contains(got, "javascript:") || strings.Contains(got, "onerror") {
			t.Errorf("Sanitize(%q) = %q, dangerous content kept", input, got)
		}
	}
}

func TestSanitizeToHTML(t *testing.T) {
	got := htmlsanitize.SanitizeToHTML("<p>Hello</p><script>x()</script>")
	if got != template.HTML("<p>Hello</p>") {
		t.Errorf("SanitizeToHTML = %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	got, err := htmlsanitize.RenderMarkdown("# Fest\n\nJoin us **Friday**.\n\n- food\n- music")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	s := string(got)
	for _, want := range []string{"<h1>Fest</h1>", "<strong>Friday</strong>", "<li>food</li>"} {
		if !strings.Contains(s, want) {
			t.Errorf("RenderMarkdown output %q missing %q", s, want)
		}
	}
}

func TestRenderMarkdown_DropsRawHTML(t *testing.T) {
	got, err := htmlsanitize.RenderMarkdown("hi <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if strings.Contains(string(got), "<script") {
		t.Errorf("RenderMarkdown kept script: %q", got)
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	got, err := htmlsanitize.RenderMarkdown("   ")
	if err != nil || got != "" {
		t.Errorf("RenderMarkdown(blank) = (%q, %v)", got, err)
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Hello", "<p>Hello</p>"},
		{"Line 1\nLine 2", "<p>Line 1<br>Line 2</p>"},
		{"A & B", "<p>A &amp; B</p>"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainTextToHTML(tt.input); got != tt.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := htmlsanitize.Excerpt("<p>short</p>", 20); got != "short" {
		t.Errorf("Excerpt = %q, want short", got)
	}
	if got := htmlsanitize.Excerpt("<p>Registration closes on Friday</p>", 12); got != "Registration…" {
		t.Errorf("Excerpt = %q", got)
	}
}
