// Package blogfront provides embedded assets.
package blogfront

import _ "embed"

// CatalogYAML is the showcase catalog served on the projects and community pages.
//
//go:embed assets/catalog.yaml
var CatalogYAML []byte
