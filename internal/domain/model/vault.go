package model

// SelectionItem is a single entry in a customer's vault selection.
// Entries are unique by ID; re-adding an existing ID is a no-op.
type SelectionItem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Price      float64    `json:"price"`
	Image      string     `json:"image"`
	House      string     `json:"house"`
	AssetClass AssetClass `json:"asset_class"`
}

// SelectionFromProduct builds a vault entry from a catalog product.
func SelectionFromProduct(p Product) SelectionItem {
	return SelectionItem{
		ID:         p.ID,
		Title:      p.Title,
		Price:      p.Price,
		Image:      p.Image,
		House:      p.House,
		AssetClass: p.AssetClass,
	}
}
