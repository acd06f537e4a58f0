package models

// CatalogEntry is one coin from the market catalog service.
// ID is the canonical market identifier used by the quote endpoint; it is
// distinct from the ticker symbol, which collides across many assets.
type CatalogEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
