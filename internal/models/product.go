package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog product together with the images it owns.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null"`
	Price       float64        `json:"price" gorm:"not null;default:0"`
	Description *string        `json:"description" gorm:"type:text"`
	Slug        string         `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Stock       int            `json:"stock" gorm:"not null;default:0"`
	Sizes       []string       `json:"sizes" gorm:"serializer:json"`
	Gender      string         `json:"gender" gorm:"type:varchar(16);not null"`
	Tags        []string       `json:"tags" gorm:"serializer:json"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProductImage is an image URL exclusively owned by one Product.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	URL       string `json:"url" gorm:"type:text;not null"`
	Position  int    `json:"position" gorm:"not null;default:0"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);not null;index"`
}

// PlainProduct is the public shape of a Product: owned images flattened to URLs.
type PlainProduct struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	Slug        string    `json:"slug"`
	Stock       int       `json:"stock"`
	Sizes       []string  `json:"sizes"`
	Gender      string    `json:"gender"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeleteResult describes the outcome of a delete operation.
type DeleteResult struct {
	Affected int64 `json:"affected"`
}

// Plain flattens p into its public shape, keeping image order.
func (p *Product) Plain() PlainProduct {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.URL)
	}
	return PlainProduct{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       nonNil(p.Sizes),
		Gender:      p.Gender,
		Tags:        nonNil(p.Tags),
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewImages builds owned image rows from urls, preserving their order.
func NewImages(productID string, urls []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, ProductImage{URL: url, Position: i, ProductID: productID})
	}
	return images
}

// NormalizeSlug lower-cases s, turns spaces into underscores and drops apostrophes.
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "'", "")
}

// PrepareForInsert derives the slug from the title when none was given and
// normalizes it.
func (p *Product) PrepareForInsert() {
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = NormalizeSlug(p.Slug)
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// BeforeCreate is the gorm hook running PrepareForInsert.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.PrepareForInsert()
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
