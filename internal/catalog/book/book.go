// Package book holds the Book entity, its gateway and the stock-state formatter.
package book

import (
	"encoding/json"
	"time"
)

// Book belongs to exactly one author.
type Book struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Title        string    `json:"title"`
	Descr        string    `json:"descr"`
	Stock        int       `json:"stock"`
	Price        string    `json:"price"` // decimal text, empty when unpriced
	CurrencyCode string    `json:"currency_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MarshalJSON adds the derived stock classification for presentation.
func (b Book) MarshalJSON() ([]byte, error) {
	type plain Book
	state := StockStateOf(b.Stock)
	return json.Marshal(struct {
		plain
		StockState StockState `json:"stock_state"`
		ValueState string     `json:"value_state"`
	}{
		plain:      plain(b),
		StockState: state,
		ValueState: state.ValueState(),
	})
}

// Filter scopes a book listing to one author.
type Filter struct {
	AuthorID string
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title        *string
	Descr        *string
	Stock        *int
	Price        *string
	CurrencyCode *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Descr == nil && p.Stock == nil && p.Price == nil && p.CurrencyCode == nil
}

// Global field names for validation
const (
	FieldTitle    = "title"
	FieldDescr    = "descr"
	FieldStock    = "stock"
	FieldPrice    = "price"
	FieldCurrency = "currency"
	FieldAuthorID = "author_id"
)
