package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftPayload_DefaultImage(t *testing.T) {
	p := Draft{Title: "Hello", BodyHTML: "<p>hi</p>"}.Payload()

	assert.Equal(t, DefaultImageURL, p.Image)
	assert.Equal(t, CategoryUncategorized, p.Category)
	assert.Equal(t, "<p>hi</p>", p.Content)
}

func TestDraftPayload_KeepsUploadedImage(t *testing.T) {
	p := Draft{Title: "Hello", Category: CategoryDevOps, ImageURL: "https://cdn.example.com/a.png"}.Payload()

	assert.Equal(t, "https://cdn.example.com/a.png", p.Image)
	assert.Equal(t, CategoryDevOps, p.Category)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in    string
		want  Category
		valid bool
	}{
		{"", CategoryUncategorized, true},
		{" Java ", CategoryJava, true},
		{"design_patterns", CategoryDesignPatterns, true},
		{"cobol", Category("cobol"), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestCategories_OrderAndLabels(t *testing.T) {
	opts := Categories()
	assert.Len(t, opts, 15)
	assert.Equal(t, CategoryUncategorized, opts[0].Value)
	assert.Equal(t, "Data Structure & Algorithms", CategoryAlgorithms.Label())
	assert.Equal(t, "unknown", Category("unknown").Label())
}

func TestCreatedPath(t *testing.T) {
	assert.Equal(t, "/post/hello-world", Created{Slug: "hello-world"}.Path())
}

func TestAsset(t *testing.T) {
	a := Asset{Filename: "a.png", Data: []byte("png")}
	assert.False(t, a.Empty())
	assert.EqualValues(t, 3, a.Size())
	assert.True(t, Asset{}.Empty())
}
