package request

// CreateCatalogItemRequest represents a catalog item creation request
type CreateCatalogItemRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=255"`
	Code     string  `json:"code" binding:"omitempty,max=100"`
	Category *string `json:"category" binding:"omitempty,max=100"`
	Price    float64 `json:"price" binding:"min=0"`
	Active   *bool   `json:"active"`
}

// UpdateCatalogItemRequest represents a catalog item update request
type UpdateCatalogItemRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Category *string  `json:"category" binding:"omitempty,max=100"`
	Price    *float64 `json:"price" binding:"omitempty,min=0"`
	Active   *bool    `json:"active"`
}

// CatalogFilterRequest represents catalog filter parameters
type CatalogFilterRequest struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
