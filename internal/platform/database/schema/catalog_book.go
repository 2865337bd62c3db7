package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table        string
	ID           string
	AuthorID     string
	Title        string
	Descr        string
	Stock        string
	Price        string
	CurrencyCode string
	CreatedAt    string
	UpdatedAt    string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:        "catalog.book",
	ID:           "id",
	AuthorID:     "authorid",
	Title:        "title",
	Descr:        "descr",
	Stock:        "stock",
	Price:        "price",
	CurrencyCode: "currencycode",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t CatalogBookTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.Title, t.Descr, t.Stock, t.Price, t.CurrencyCode, t.CreatedAt, t.UpdatedAt}
}
