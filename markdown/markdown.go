// Package markdown renders the markdown subset used by article authors to
// HTML. Articles are rendered once, at upload time, and the HTML is what
// gets stored.
package markdown

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reImg        = regexp.MustCompile(`\!\[(.*?)\]\((.*?)\)`)
	reOrdered    = regexp.MustCompile(`^\d+\.\s`)
)

// Render converts md to HTML.
func Render(md string) string {
	var b strings.Builder
	inPara := false
	inList := false
	inOrdered := false
	inQuote := false
	inCode := false

	closeBlocks := func() {
		if inPara {
			b.WriteString("</p>")
			inPara = false
		}
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
		if inOrdered {
			b.WriteString("</ol>")
			inOrdered = false
		}
		if inQuote {
			b.WriteString("</blockquote>")
			inQuote = false
		}
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if inCode {
				b.WriteString("</code></pre>")
				inCode = false
			} else {
				closeBlocks()
				b.WriteString("<pre><code>")
				inCode = true
			}
			continue
		}
		if inCode {
			b.WriteString(html.EscapeString(line))
			b.WriteString("\n")
			continue
		}

		if strings.TrimSpace(line) == "" {
			closeBlocks()
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			closeBlocks()
			b.WriteString("<h3>" + inline(line[4:]) + "</h3>")
		case strings.HasPrefix(line, "## "):
			closeBlocks()
			b.WriteString("<h2>" + inline(line[3:]) + "</h2>")
		case strings.HasPrefix(line, "# "):
			closeBlocks()
			b.WriteString("<h1>" + inline(line[2:]) + "</h1>")
		case strings.HasPrefix(line, "---"):
			closeBlocks()
			b.WriteString("<hr/>")
		case strings.HasPrefix(line, "- "):
			if !inList {
				closeBlocks()
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>" + inline(line[2:]) + "</li>")
		case reOrdered.MatchString(line):
			if !inOrdered {
				closeBlocks()
				b.WriteString("<ol>")
				inOrdered = true
			}
			b.WriteString("<li>" + inline(reOrdered.ReplaceAllString(line, "")) + "</li>")
		case strings.HasPrefix(line, "> "):
			if !inQuote {
				closeBlocks()
				b.WriteString("<blockquote>")
				inQuote = true
			}
			b.WriteString(inline(line[2:]))
		default:
			if !inPara {
				closeBlocks()
				b.WriteString("<p>")
				inPara = true
			} else {
				b.WriteString(" ")
			}
			b.WriteString(inline(strings.TrimSpace(line)))
		}
	}
	closeBlocks()
	if inCode {
		b.WriteString("</code></pre>")
	}
	return b.String()
}

// inline applies image, link, code, bold and italic formatting to an
// HTML-escaped line fragment.
func inline(s string) string {
	out := html.EscapeString(strings.TrimSpace(s))

	out = reImg.ReplaceAllStringFunc(out, func(m string) string {
		match := reImg.FindStringSubmatch(m)
		src := safeURL(match[2])
		if src == "" {
			return match[1]
		}
		return `<img alt="` + match[1] + `" src="` + src + `"/>`
	})
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := safeURL(match[2])
		if href == "" {
			return match[1]
		}
		return `<a href="` + href + `">` + match[1] + `</a>`
	})
	out = reInlineCode.ReplaceAllString(out, "<code>$1</code>")
	out = reBold.ReplaceAllString(out, "<strong>$1</strong>")
	out = reItalic.ReplaceAllString(out, "<em>$1</em>")
	return out
}

// safeURL rejects anything that is not a relative path, fragment, or an
// http(s)/mailto URL.
func safeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto":
		return html.EscapeString(val)
	default:
		return ""
	}
}
