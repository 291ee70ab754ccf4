package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		contains   []string
		notContain []string
	}{
		{
			name:       "drops scripts",
			in:         `<p>hi</p><script>alert(1)</script>`,
			contains:   []string{"<p>hi</p>"},
			notContain: []string{"script", "alert"},
		},
		{
			name:       "drops event handlers",
			in:         `<p onclick="steal()">hi</p><img src="https://cdn.example.com/a.png" onerror="x()">`,
			contains:   []string{`<img src="https://cdn.example.com/a.png">`},
			notContain: []string{"onclick", "onerror"},
		},
		{
			name:       "keeps editor classes",
			in:         `<p class="ql-align-center ql-indent-1">x</p><pre class="ql-syntax" spellcheck="false">code</pre>`,
			contains:   []string{`class="ql-align-center ql-indent-1"`, `class="ql-syntax"`, `spellcheck="false"`},
		},
		{
			name:       "drops foreign classes",
			in:         `<p class="evil">x</p>`,
			contains:   []string{"<p>x</p>"},
			notContain: []string{"evil"},
		},
		{
			name:       "javascript links removed",
			in:         `<a href="javascript:alert(1)">x</a>`,
			notContain: []string{"javascript"},
		},
		{
			name:     "external links get nofollow",
			in:       `<a href="https://example.com">x</a>`,
			contains: []string{"nofollow", `target="_blank"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.notContain {
				assert.NotContains(t, got, bad)
			}
		})
	}
	assert.Empty(t, Sanitize("   "))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world Second line", PlainText("<h1>Hello</h1><p>world</p><p>Second<br>line</p>"))
	assert.Equal(t, "bold text", PlainText("<p><strong>bold</strong> text</p><script>var x</script>"))
	assert.Empty(t, PlainText(""))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("<p><br></p>"))
	assert.True(t, IsBlank("<p>   </p><p>&nbsp;</p>"))
	assert.False(t, IsBlank("<p>x</p>"))
	assert.False(t, IsBlank(`<p><img src="https://cdn.example.com/a.png"></p>`))
}

func TestExcerpt(t *testing.T) {
	body := "<p>The quick brown fox jumps over the lazy dog.</p>"
	assert.Equal(t, "The quick brown…", Excerpt(body, 18))
	assert.Equal(t, "The quick brown fox jumps over the lazy dog.", Excerpt(body, 0))
	assert.Equal(t, "The quick brown fox jumps over the lazy dog.", Excerpt(body, 100))
}

func TestReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, ReadingMinutes(""))
	assert.Equal(t, 1, ReadingMinutes("<p>short</p>"))
	long := "<p>" + strings.Repeat("word ", 401) + "</p>"
	assert.Equal(t, 3, ReadingMinutes(long))
}
