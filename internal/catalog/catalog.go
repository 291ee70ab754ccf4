// Package catalog loads the static showcase data (portfolio projects and
// community links) from YAML.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/abctechblog/blogfront"
	domaincatalog "github.com/abctechblog/blogfront/internal/domain/catalog"
	"github.com/abctechblog/blogfront/internal/validation"
)

const maxURLLen = 2048

// Catalog is an immutable set of projects and community links.
type Catalog struct {
	projects  []domaincatalog.Project
	community []domaincatalog.CommunityLink
	byID      map[string]int
}

type document struct {
	Projects  []domaincatalog.Project       `yaml:"projects"`
	Community []domaincatalog.CommunityLink `yaml:"community"`
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("catalog: document is empty")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	c := &Catalog{
		projects:  doc.Projects,
		community: doc.Community,
		byID:      make(map[string]int, len(doc.Projects)),
	}
	for i, p := range c.projects {
		if err := validateProject(p); err != nil {
			return nil, fmt.Errorf("catalog: project %d: %w", i+1, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate project id %q", p.ID)
		}
		c.byID[p.ID] = i
	}
	seen := make(map[string]struct{}, len(c.community))
	for i, l := range c.community {
		if err := validateLink(l); err != nil {
			return nil, fmt.Errorf("catalog: community link %d: %w", i+1, err)
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate community link id %q", l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(blogfront.CatalogYAML)
})

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Projects returns the showcased projects in catalog order.
func (c *Catalog) Projects() []domaincatalog.Project {
	out := make([]domaincatalog.Project, len(c.projects))
	for i, p := range c.projects {
		p.Tech = append([]string(nil), p.Tech...)
		out[i] = p
	}
	return out
}

// Project looks up a project by id.
func (c *Catalog) Project(id string) (domaincatalog.Project, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domaincatalog.Project{}, false
	}
	p := c.projects[i]
	p.Tech = append([]string(nil), p.Tech...)
	return p, true
}

// Community returns the community links in catalog order.
func (c *Catalog) Community() []domaincatalog.CommunityLink {
	return append([]domaincatalog.CommunityLink(nil), c.community...)
}

func validateProject(p domaincatalog.Project) error {
	fv := validation.New().
		Validate("id", p.ID, validation.Required("id is required")).
		Validate("title", p.Title, validation.Required("title is required")).
		Validate("image", p.Image, validation.HTTPSURL("Image", maxURLLen)).
		Validate("github_url", p.GitHubURL, validation.HTTPSURL("GitHub URL", maxURLLen))
	if strings.TrimSpace(p.LiveURL) != "" {
		fv.Validate("live_url", p.LiveURL, validation.HTTPSURL("Live URL", maxURLLen))
	}
	return firstError(fv)
}

// Community links may also point within the page ("#") or the site ("/...").
func validateLink(l domaincatalog.CommunityLink) error {
	fv := validation.New().
		Validate("id", l.ID, validation.Required("id is required")).
		Validate("title", l.Title, validation.Required("title is required")).
		Validate("url", l.URL, validation.Required("url is required"))
	if u := strings.TrimSpace(l.URL); u != "" && !strings.HasPrefix(u, "#") && !strings.HasPrefix(u, "/") {
		fv.Validate("url", u, validation.HTTPSURL("URL", maxURLLen))
	}
	return firstError(fv)
}

func firstError(fv *validation.FieldValidator) error {
	if field, msg, ok := fv.First(); ok {
		return fmt.Errorf("%s: %s", field, msg)
	}
	return nil
}
