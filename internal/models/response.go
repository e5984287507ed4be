package models

// ListResponse is the paginated transport envelope for list endpoints.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// APIResponse is the detail endpoint envelope: exactly one of Data or
// Error is set.
type APIResponse[T any] struct {
	Data  *T      `json:"data"`
	Error *string `json:"error"`
}

// CatalogResponse is the unpaginated envelope used by /programs.
type CatalogResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ErrorResponse is the structured body for 5xx failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
