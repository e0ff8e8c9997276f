package models

// ListCatalog names one of the two independently keyed reference catalogs.
type ListCatalog string

const (
	CatalogDegrees        ListCatalog = "degrees"
	CatalogBacSpecialties ListCatalog = "bacSpecialties"
)

// Valid reports whether c names a known catalog.
func (c ListCatalog) Valid() bool {
	return c == CatalogDegrees || c == CatalogBacSpecialties
}

// ListItem is a (value, label) pair in a reference catalog. Value is
// unique within its catalog. Removal archives the item instead of
// deleting it so historical dossiers keep resolving their codes.
type ListItem struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Archived bool   `json:"archived"`
}
