// Package catalog holds the static showcase data: portfolio projects and community links.
package catalog

import (
	"strings"
	"time"
)

// Project is a showcased portfolio project.
type Project struct {
	ID          string    `yaml:"id"          json:"id"`
	Title       string    `yaml:"title"       json:"title"`
	Description string    `yaml:"description" json:"description"`
	Image       string    `yaml:"image"       json:"image"`
	Tech        []string  `yaml:"tech"        json:"tech,omitempty"`
	GitHubURL   string    `yaml:"github_url"  json:"githubUrl"`
	LiveURL     string    `yaml:"live_url"    json:"liveUrl,omitempty"`
	CreatedAt   time.Time `yaml:"created_at"  json:"createdAt"`
}

// CommunityLink is a call-to-action card on the community page.
type CommunityLink struct {
	ID          string `yaml:"id"          json:"id"`
	Title       string `yaml:"title"       json:"title"`
	Description string `yaml:"description" json:"description"`
	URL         string `yaml:"url"         json:"url"`
	Icon        string `yaml:"icon"        json:"icon"`
}

// External reports whether the link leaves the site and should open in a new tab.
func (l CommunityLink) External() bool {
	return strings.HasPrefix(l.URL, "http")
}
