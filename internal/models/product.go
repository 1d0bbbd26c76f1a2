package models

// Thumbnail is a product image reference. A thumbnail is either a path on
// disk or an embedded base64 blob carrying its content type and original
// filename; exactly one of Path and Data is set.
type Thumbnail struct {
	Path        string `json:"path,omitempty"`
	Data        string `json:"data,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

// Product represents a product in the catalog.
type Product struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Code        string      `json:"code"`
	Price       float64     `json:"price"`
	Stock       int         `json:"stock"`
	Category    string      `json:"category"`
	Status      bool        `json:"status"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
}

// CreateProductRequest is used for product creation requests.
type CreateProductRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Code        string      `json:"code" validate:"required"`
	Price       float64     `json:"price" validate:"gte=0"`
	Stock       int         `json:"stock" validate:"gte=0"`
	Category    string      `json:"category" validate:"required"`
	Status      *bool       `json:"status"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
}

// UpdateProductRequest is used for partial product updates. Nil fields are
// left untouched; the same type doubles as the patch handed to the stores.
type UpdateProductRequest struct {
	Title       *string     `json:"title" validate:"omitempty,min=1"`
	Description *string     `json:"description" validate:"omitempty,min=1"`
	Code        *string     `json:"code" validate:"omitempty,min=1"`
	Price       *float64    `json:"price" validate:"omitempty,gte=0"`
	Stock       *int        `json:"stock" validate:"omitempty,gte=0"`
	Category    *string     `json:"category" validate:"omitempty,min=1"`
	Status      *bool       `json:"status"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
}
