// Package storefront holds the page controllers of the storefront. Each
// controller turns a user event into a new page state plus at most one call
// on the catalog; the web package only translates HTTP to and from them.
package storefront

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jrmart/internal/models"
)

// ProductRepository is the part of the catalog client the pages use.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Find(ctx context.Context, f models.Filter) ([]models.Product, error)
	Get(ctx context.Context, id models.ID) (models.Product, error)
	Create(ctx context.Context, d models.Draft) (models.Product, error)
	Update(ctx context.Context, id models.ID, d models.Draft) (models.Product, error)
	Delete(ctx context.Context, id models.ID) error
}

// ImageStore persists uploaded image bytes and returns their reference.
type ImageStore interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// User visible alerts.
const (
	MsgFillAllFields   = "Please fill all fields"
	MsgInvalidPrice    = "Price must be a non-negative number"
	MsgInvalidCategory = "Please select a valid category"
	MsgImageTooLarge   = "Image is too large (max 8 MB)"
	MsgCreated         = "Product created successfully!"
	MsgCreateFailed    = "Unable to create product. Please try again."
	MsgUpdated         = "Product updated successfully!"
	MsgUpdateFailed    = "Unable to update product. Please try again."
	MsgNotFound        = "Product not found"
	MsgFetchFailed     = "Unable to fetch data"
	MsgDeleted         = "Product deleted"
	MsgDeleteFailed    = "Unable to delete product. Please try again."
)

// Routes.
const (
	HomePath   = "/"
	ListPath   = "/admin/products"
	CreatePath = "/admin/products/create"
)

func EditPath(id models.ID) string   { return "/admin/products/edit/" + url.PathEscape(id.String()) }
func DeletePath(id models.ID) string { return "/admin/products/delete/" + url.PathEscape(id.String()) }

// ProductRow is one product prepared for display.
type ProductRow struct {
	ID          models.ID
	Name        string
	Category    models.Category
	Price       string // "19.99$"
	ImageURL    string
	CreatedDate string // "2024-01-01"
	EditURL     string
	DeleteURL   string
}

// Presenter formats products for the pages.
type Presenter struct {
	// ImageBaseURL is the host serving /images/{imageFilename}.
	ImageBaseURL string
}

func (p Presenter) Row(prod models.Product) ProductRow {
	row := ProductRow{
		ID:        prod.ID,
		Name:      prod.Name,
		Category:  prod.Category,
		Price:     FormatPrice(prod.Price),
		ImageURL:  p.ImageURL(prod.ImageFilename),
		EditURL:   EditPath(prod.ID),
		DeleteURL: DeletePath(prod.ID),
	}
	row.CreatedDate = createdDate(prod)
	return row
}

// createdDate is the YYYY-MM-DD part of createdAt. A value that could not be
// parsed is cut to its first ten characters.
func createdDate(prod models.Product) string {
	if !prod.CreatedAt.IsZero() {
		return prod.CreatedAt.Format(time.DateOnly)
	}
	raw := []rune(prod.CreatedRaw)
	if len(raw) > 10 {
		raw = raw[:10]
	}
	return string(raw)
}

func (p Presenter) Rows(items []models.Product) []ProductRow {
	rows := make([]ProductRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, p.Row(it))
	}
	return rows
}

// ImageURL resolves an imageFilename against the image host. Older records
// store the reference as "/images/name", newer ones as "name".
func (p Presenter) ImageURL(name string) string {
	name = strings.TrimPrefix(strings.TrimPrefix(name, "/"), "images/")
	if name == "" {
		return ""
	}
	return strings.TrimRight(p.ImageBaseURL, "/") + "/images/" + url.PathEscape(name)
}

// FormatPrice renders a price with the currency suffix, e.g. "19.99$".
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).String() + "$"
}
