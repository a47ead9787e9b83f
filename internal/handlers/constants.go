package handlers

const (
	ErrInvalidRequest        = "Invalid request"
	ErrUnauthorized          = "Unauthorized"
	ErrTooManyRequests       = "Too many requests"
	ErrInternalServerError   = "Internal server error"
	ErrInternalServerErrorUC = "Internal Server Error"

	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv; charset=utf-8"
)
