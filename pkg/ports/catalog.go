package ports

import "github.com/aretw0/debloat/pkg/domain"

// CatalogProvider supplies the catalog used for new plans and toggles.
// A provider may swap the catalog (hot reload); callers must not mutate the returned value.
type CatalogProvider interface {
	Catalog() *domain.Catalog
}
