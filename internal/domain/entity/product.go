package entity

// Category groups products. Products embed id and name to avoid a lookup on display.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry.
type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Description string     `json:"description"`
	ImageURL    *string    `json:"imageURL"`
	Category    Category   `json:"category"`
	Stock       int        `json:"stock"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty"`
}

// ProductRequest is the payload for product creation and full updates.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required" backend:"required"`
	Price       float64  `json:"price" backend:"gt=0"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Stock       int      `json:"stock" backend:"gte=0"`
}

// CategoryRequest names a category to create or rename.
type CategoryRequest struct {
	Name string `json:"name" validate:"required" backend:"required"`
}

// Upload is a file sent as one multipart part.
type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
}
