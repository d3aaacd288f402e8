package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgPermissionDenied   = "Permission denied"
	ErrMsgNotFound           = "Not found"
	ErrMsgOperationFailed    = "Operation failed"
	ErrMsgRateLimited        = "Vượt giới hạn yêu cầu, vui lòng thử lại sau."
	ErrMsgPaymentRequired    = "Cần nạp thêm credit để sử dụng AI."
)

// API path constants
const (
	APIBasePath = "/api/v1"
)
