// Package post holds the post-creation draft and its wire payload.
package post

import (
	"bytes"
	"io"
	"strings"
)

// DefaultImageURL is sent when the author publishes without uploading an image.
const DefaultImageURL = "https://res.cloudinary.com/ddgkgaffw/image/upload/v1746758347/default-image_vxqxhk.png"

// Category is the topic a post is filed under.
type Category string

const (
	CategoryUncategorized  Category = "uncategorized"
	CategoryJava           Category = "java"
	CategorySpring         Category = "spring"
	CategoryPython         Category = "python"
	CategoryDjango         Category = "django"
	CategoryAI             Category = "ai"
	CategoryJavaScript     Category = "javascript"
	CategoryReact          Category = "react"
	CategoryNextJS         Category = "nextjs"
	CategoryAngular        Category = "angular"
	CategoryDatabases      Category = "databases"
	CategoryDevOps         Category = "devops"
	CategoryDesignPatterns Category = "design_patterns"
	CategoryAlgorithms     Category = "algorithms"
	CategoryTech           Category = "tech"
)

var categoryLabels = []struct {
	cat   Category
	label string
}{
	{CategoryUncategorized, "Select a category"},
	{CategoryJava, "Java"},
	{CategorySpring, "Spring Boot"},
	{CategoryPython, "Python"},
	{CategoryDjango, "Django"},
	{CategoryAI, "AI/ML"},
	{CategoryJavaScript, "JavaScript"},
	{CategoryReact, "React"},
	{CategoryNextJS, "Next.js"},
	{CategoryAngular, "Angular"},
	{CategoryDatabases, "Databases"},
	{CategoryDevOps, "DevOps"},
	{CategoryDesignPatterns, "Design Patterns"},
	{CategoryAlgorithms, "Data Structure & Algorithms"},
	{CategoryTech, "Tech talk"},
}

// CategoryOption is a select-list entry.
type CategoryOption struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

// Categories returns the select options in display order.
func Categories() []CategoryOption {
	out := make([]CategoryOption, 0, len(categoryLabels))
	for _, c := range categoryLabels {
		out = append(out, CategoryOption{Value: c.cat, Label: c.label})
	}
	return out
}

// Label returns the display label, or the raw value for unknown categories.
func (c Category) Label() string {
	for _, opt := range categoryLabels {
		if opt.cat == c {
			return opt.label
		}
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, opt := range categoryLabels {
		if opt.cat == c {
			return true
		}
	}
	return false
}

// ParseCategory maps free-form input to a Category. Empty input is uncategorized.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryUncategorized, true
	}
	c := Category(s)
	return c, c.Valid()
}

// Draft is the unsaved post being composed.
type Draft struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	BodyHTML string   `json:"content"`
	ImageURL string   `json:"image,omitempty"`
}

// IsZero reports whether nothing has been entered yet.
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// Payload is the create-post request body.
type Payload struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Content  string   `json:"content"`
	Image    string   `json:"image"`
}

// Payload builds the request body, substituting defaults for an unset
// category and image.
func (d Draft) Payload() Payload {
	cat := d.Category
	if cat == "" {
		cat = CategoryUncategorized
	}
	img := strings.TrimSpace(d.ImageURL)
	if img == "" {
		img = DefaultImageURL
	}
	return Payload{
		Title:    d.Title,
		Category: cat,
		Content:  d.BodyHTML,
		Image:    img,
	}
}

// Created is the backend's answer to a successful create-post.
type Created struct {
	Slug string `json:"slug"`
	ID   string `json:"_id,omitempty"`
}

// Path returns the address of the new post.
func (c Created) Path() string {
	return "/post/" + c.Slug
}

// Asset is an image selected for upload. The bytes are held in memory so a
// failed upload can be retried with the same selection.
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the asset length in bytes.
func (a Asset) Size() int64 { return int64(len(a.Data)) }

// Reader returns a fresh reader over the asset bytes.
func (a Asset) Reader() io.Reader { return bytes.NewReader(a.Data) }

// Empty reports whether no file was selected.
func (a Asset) Empty() bool { return len(a.Data) == 0 }
