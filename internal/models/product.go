package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// StatusAvailable is the only lifecycle tag the storefront assigns.
const StatusAvailable = "available"

// Category is one of the fixed storefront categories.
type Category string

const (
	CategoryFashion Category = "Fashion"
	CategoryGrocery Category = "Grocery"
	CategoryMobiles Category = "Mobiles"
	CategoryLaptop  Category = "Laptop"
)

// Categories lists every category in landing page order.
var Categories = []Category{CategoryFashion, CategoryGrocery, CategoryMobiles, CategoryLaptop}

// Label is the text shown in the product form select box.
func (c Category) Label() string {
	if c == CategoryMobiles {
		return "Home"
	}
	return string(c)
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, k := range Categories {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

// Product is the catalog's canonical representation.
type Product struct {
	ID            ID        `json:"id"`
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Price         float64   `json:"price"`
	Description   string    `json:"description"`
	ImageFilename string    `json:"imageFilename"`
	CreatedAt     time.Time `json:"createdAt"`
	SellerID      int       `json:"sellerId"`
	Status        string    `json:"status"`

	// CreatedRaw holds a createdAt value that is not a timestamp this
	// package understands, exactly as the catalog sent it.
	CreatedRaw string `json:"-"`
}

// UnmarshalJSON accepts any createdAt value. One record with an odd
// timestamp must not make a whole listing undecodable.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.CreatedAt, p.CreatedRaw = parseCreatedAt(aux.CreatedAt)
	return nil
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseCreatedAt(raw json.RawMessage) (time.Time, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, string(raw)
	}
	s = strings.TrimSpace(s)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, ""
		}
	}
	return time.Time{}, s
}

// Draft is product input that has not been persisted yet. It never carries
// an id: the catalog assigns one.
type Draft struct {
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Price         float64   `json:"price"`
	Description   string    `json:"description"`
	ImageFilename string    `json:"imageFilename"`
	CreatedAt     time.Time `json:"createdAt"`
	SellerID      int       `json:"sellerId"`
	Status        string    `json:"status"`

	// CreatedRaw is sent as createdAt when CreatedAt is zero.
	CreatedRaw string `json:"-"`
}

func (d Draft) MarshalJSON() ([]byte, error) {
	type plain Draft
	if d.CreatedAt.IsZero() && d.CreatedRaw != "" {
		return json.Marshal(struct {
			plain
			CreatedAt string `json:"createdAt"`
		}{plain(d), d.CreatedRaw})
	}
	return json.Marshal(plain(d))
}

// MissingFields returns the json names of required fields that are empty.
func (d Draft) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if !d.Category.Valid() {
		missing = append(missing, "category")
	}
	if d.Price < 0 {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(d.ImageFilename) == "" {
		missing = append(missing, "imageFilename")
	}
	return missing
}

// Draft returns the editable part of p, keeping createdAt, sellerId and
// status as they are.
func (p Product) Draft() Draft {
	return Draft{
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		Description:   p.Description,
		ImageFilename: p.ImageFilename,
		CreatedAt:     p.CreatedAt,
		SellerID:      p.SellerID,
		Status:        p.Status,
		CreatedRaw:    p.CreatedRaw,
	}
}

// Filter narrows a product listing. The zero value matches everything.
type Filter struct {
	Query    string
	Category Category
}

// IsZero reports whether f matches every product.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Category == ""
}
