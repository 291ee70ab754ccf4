// Package content cleans and inspects rich-text post bodies produced by the editor.
package content

import (
	"math"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	bodyPolicyOnce sync.Once
	bodyPolicy     *bluemonday.Policy
)

// editorClass matches the class names the rich-text editor emits for
// alignment, indentation, sizes and code blocks.
var editorClass = regexp.MustCompile(`^(ql-[a-z0-9-]+(\s+ql-[a-z0-9-]+)*|language-[a-z0-9+#-]+)$`)

// wordsPerMinute is the reading speed used for ReadingMinutes.
const wordsPerMinute = 200

// Sanitize strips scripts, event handlers and anything else outside the
// editor's vocabulary from a post body.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(bodySanitizer().Sanitize(trimmed))
}

func bodySanitizer() *bluemonday.Policy {
	bodyPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Matching(editorClass).Globally()
		policy.AllowAttrs("spellcheck").Matching(regexp.MustCompile(`^(true|false)$`)).OnElements("pre")
		policy.AllowAttrs("data-list").Matching(regexp.MustCompile(`^(bullet|ordered|checked|unchecked)$`)).OnElements("li")
		policy.AllowElements("u", "s")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		bodyPolicy = policy
	})
	return bodyPolicy
}

// PlainText returns the visible text of an HTML fragment with whitespace collapsed.
func PlainText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		writeText(&b, n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "br": true, "pre": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "tr": true, "td": true, "th": true,
}

// writeText appends the text under n. Block boundaries become spaces so
// adjacent paragraphs do not run together.
func writeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte(' ')
	}
}

// IsBlank reports whether html has no visible text and no images.
// The editor's empty state is "<p><br></p>", which is blank.
func IsBlank(body string) bool {
	if PlainText(body) != "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return true
	}
	return doc.Find("img[src], iframe[src]").Length() == 0
}

// Excerpt returns up to maxRunes runes of plain text, cut at a word boundary
// and suffixed with an ellipsis when shortened.
func Excerpt(body string, maxRunes int) string {
	text := PlainText(body)
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

// ReadingMinutes estimates the reading time of a post, never less than one minute.
func ReadingMinutes(body string) int {
	words := len(strings.Fields(PlainText(body)))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}
