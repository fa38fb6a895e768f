package models

// Genders accepted for a product.
var Genders = []string{"men", "women", "kid", "unisex"}

// CreateProductInput is the payload accepted when creating a product.
type CreateProductInput struct {
	Title       string   `json:"title" yaml:"title" validate:"required,min=1"`
	Price       float64  `json:"price" yaml:"price" validate:"gte=0"`
	Description *string  `json:"description" yaml:"description"`
	Slug        string   `json:"slug" yaml:"slug" validate:"omitempty,min=1"`
	Stock       int      `json:"stock" yaml:"stock" validate:"gte=0"`
	Sizes       []string `json:"sizes" yaml:"sizes" validate:"required,dive,required"`
	Gender      string   `json:"gender" yaml:"gender" validate:"required,oneof=men women kid unisex"`
	Tags        []string `json:"tags" yaml:"tags" validate:"omitempty,dive,required"`
	Images      []string `json:"images" yaml:"images" validate:"omitempty,dive,required"`
}

// ToProduct builds an unsaved Product with owned images. Images default to empty.
func (in CreateProductInput) ToProduct(id string) *Product {
	return &Product{
		ID:          id,
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Slug:        in.Slug,
		Stock:       in.Stock,
		Sizes:       in.Sizes,
		Gender:      in.Gender,
		Tags:        in.Tags,
		Images:      NewImages(id, in.Images),
	}
}

// UpdateProductInput is a partial update. A nil field is left untouched; a nil
// Images leaves the image set alone while a non-nil empty Images clears it.
type UpdateProductInput struct {
	Title       *string   `json:"title" validate:"omitempty,min=1"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Description *string   `json:"description"`
	Slug        *string   `json:"slug" validate:"omitempty,min=1"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Sizes       *[]string `json:"sizes" validate:"omitempty,dive,required"`
	Gender      *string   `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,required"`
	Images      *[]string `json:"images" validate:"omitempty,dive,required"`
}

// Apply merges the scalar fields of in onto p. Images are handled by the caller.
func (in UpdateProductInput) Apply(p *Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Slug != nil {
		p.Slug = NormalizeSlug(*in.Slug)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Sizes != nil {
		p.Sizes = *in.Sizes
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
}

// PaginationDto carries optional paging parameters. Defaults are applied by consumers.
type PaginationDto struct {
	Limit  *int `json:"limit" query:"limit" validate:"omitempty,gt=0"`
	Offset *int `json:"offset" query:"offset" validate:"omitempty,gte=0"`
}

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// Resolve returns limit and offset with defaults filled in.
func (p PaginationDto) Resolve() (limit, offset int) {
	limit, offset = DefaultLimit, DefaultOffset
	if p.Limit != nil {
		limit = *p.Limit
	}
	if p.Offset != nil {
		offset = *p.Offset
	}
	return limit, offset
}
