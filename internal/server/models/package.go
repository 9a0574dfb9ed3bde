package models

// Package is a sellable airtime package. Price is kept in the smallest
// currency unit (integer only, no floating point). Catalog entries may be
// overwritten by the admin but are never deleted.
type Package struct {
	Price        int64  `json:"price"`
	DurationSecs uint32 `json:"duration_secs"`
	Name         string `json:"name"`
	SpeedLabel   string `json:"speed_label"`
	IsPopular    bool   `json:"is_popular"`
}

// CatalogEntry pairs a package with its catalog id, used by enumeration.
type CatalogEntry struct {
	ID  uint32  `json:"id"`
	Pkg Package `json:"package"`
}
