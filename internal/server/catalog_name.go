package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/borga-service/internal/catalog"
)

// normalizeCatalogName returns a lower-cased catalog name, deriving it from the instance when
// not explicitly configured. Metrics and logs use the same name.
func normalizeCatalogName(raw string, resolver catalog.Resolver) string {
	if raw != "" {
		return strings.ToLower(raw)
	}
	if named, ok := resolver.(interface{ Name() string }); ok {
		return strings.ToLower(named.Name())
	}
	if resolver != nil {
		return strings.ToLower(fmt.Sprintf("%T", resolver))
	}
	return "catalog"
}
