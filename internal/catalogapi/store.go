// Package catalogapi is the REST catalog the storefront persists products
// in. It serves the products collection and the uploaded images.
package catalogapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"jrmart/internal/models"
)

var ErrNotFound = errors.New("product not found")

// likeEscaper makes a search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// productRecord is the products table.
type productRecord struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"not null"`
	Category      string  `gorm:"type:varchar(32);index;not null"`
	Price         float64 `gorm:"not null"`
	Description   string  `gorm:"type:text"`
	ImageFilename string  // reference under /images, e.g. "shirt.png"
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SellerID      int    `gorm:"index"`
	Status        string `gorm:"type:varchar(32);not null;default:'available'"`
}

func (productRecord) TableName() string { return "products" }

func (r productRecord) product() models.Product {
	return models.Product{
		ID:            models.IDFromUint(r.ID),
		Name:          r.Name,
		Category:      models.Category(r.Category),
		Price:         r.Price,
		Description:   r.Description,
		ImageFilename: r.ImageFilename,
		CreatedAt:     r.CreatedAt,
		SellerID:      r.SellerID,
		Status:        r.Status,
	}
}

func (r *productRecord) apply(d models.Draft) {
	r.Name = d.Name
	r.Category = string(d.Category)
	r.Price = d.Price
	r.Description = d.Description
	r.ImageFilename = d.ImageFilename
	r.SellerID = d.SellerID
	r.Status = d.Status
}

// Store keeps products in a gorm database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Migrate creates or updates the products table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&productRecord{})
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) List(ctx context.Context, f models.Filter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Order("id asc")
	if text := strings.ToLower(strings.TrimSpace(f.Query)); text != "" {
		like := "%" + likeEscaper.Replace(text) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", string(f.Category))
	}
	var rows []productRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.product())
	}
	return items, nil
}

func (s *Store) Get(ctx context.Context, id uint) (models.Product, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	return r.product(), nil
}

func (s *Store) find(ctx context.Context, id uint) (productRecord, error) {
	var r productRecord
	err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r, ErrNotFound
	}
	return r, err
}

// Create inserts d. The id is always assigned by the database; createdAt is
// taken from d when set.
func (s *Store) Create(ctx context.Context, d models.Draft) (models.Product, error) {
	r := productRecord{CreatedAt: d.CreatedAt}
	r.apply(d)
	if r.Status == "" {
		r.Status = models.StatusAvailable
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return models.Product{}, err
	}
	return r.product(), nil
}

// Update replaces every mutable field of product id. id and createdAt never
// change.
func (s *Store) Update(ctx context.Context, id uint, d models.Draft) (models.Product, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	r.apply(d)
	if r.Status == "" {
		r.Status = models.StatusAvailable
	}
	if err := s.db.WithContext(ctx).Save(&r).Error; err != nil {
		return models.Product{}, err
	}
	return r.product(), nil
}

// Patch applies fn to the stored draft and saves the result.
func (s *Store) Patch(ctx context.Context, id uint, fn func(*models.Draft)) (models.Product, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	d := r.product().Draft()
	fn(&d)
	r.apply(d)
	if err := s.db.WithContext(ctx).Save(&r).Error; err != nil {
		return models.Product{}, err
	}
	return r.product(), nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&productRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
