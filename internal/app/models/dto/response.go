package dto

// APIResponse is the standard success envelope for API endpoints.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse represents a plain success acknowledgement
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty"`
}

// PaginationInfo carries paging metadata for list responses.
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"5"`
	PageSize    int   `json:"pageSize" example:"20"`
	TotalItems  int64 `json:"totalItems" example:"93"`
}
