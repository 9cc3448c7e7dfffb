package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{"heading", "# Tytuł", "<h1>Tytuł</h1>"},
		{"subheading", "## Sekcja", "<h2>Sekcja</h2>"},
		{"paragraph", "zwykły tekst", "<p>zwykły tekst</p>"},
		{"bold", "to **jest** ważne", "<p>to <strong>jest</strong> ważne</p>"},
		{"italic", "to *jest* kursywa", "<p>to <em>jest</em> kursywa</p>"},
		{"inline code", "uruchom `make`", "<p>uruchom <code>make</code></p>"},
		{"link", "[strona](https://example.com)", `<p><a href="https://example.com">strona</a></p>`},
		{"image", "![wieniec](/img/wieniec)", `<p><img alt="wieniec" src="/img/wieniec"/></p>`},
		{"unordered list", "- jeden\n- dwa", "<ul><li>jeden</li><li>dwa</li></ul>"},
		{"ordered list", "1. jeden\n2. dwa", "<ol><li>jeden</li><li>dwa</li></ol>"},
		{"blockquote", "> cytat", "<blockquote>cytat</blockquote>"},
		{"rule", "---", "<hr/>"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.md); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.md, got, tt.want)
			}
		})
	}
}

func TestRenderJoinsParagraphLines(t *testing.T) {
	got := Render("linia jeden\nlinia dwa")
	if got != "<p>linia jeden linia dwa</p>" {
		t.Errorf("got %q", got)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	got := Render("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html leaked through: %q", got)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	got := Render("```\n<x> & y\n```")
	want := "<pre><code>&lt;x&gt; &amp; y\n</code></pre>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderRejectsUnsafeURLs(t *testing.T) {
	got := Render("[klik](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("unsafe scheme survived: %q", got)
	}
	if !strings.Contains(got, "klik") {
		t.Errorf("link text dropped: %q", got)
	}
}
