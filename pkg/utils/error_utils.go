package utils

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIError is the client-facing error payload inside the response envelope.
type APIError struct {
	StatusCode int         `json:"-"` // HTTP status code, not part of the JSON body
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// NewAPIError creates a new APIError instance.
func NewAPIError(statusCode int, code string, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// Application error codes carried in the envelope.
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeDuplicateEmail = "DUPLICATE_EMAIL"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// Meta is the pagination block of list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewMeta derives pagination metadata from the page parameters and the
// total count reported by the repository.
func NewMeta(page, limit, total int) *Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// envelope is the uniform JSON wrapper around every response body.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// RespondWithData sends a success envelope with the given payload.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, envelope{Success: true, Data: data})
}

// RespondWithMessage sends a success envelope carrying a payload and a
// human-readable message.
func RespondWithMessage(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, envelope{Success: true, Data: data, Message: message})
}

// RespondWithList sends a success envelope with pagination metadata.
func RespondWithList(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(200, envelope{Success: true, Data: data, Meta: meta})
}

// RespondWithError sends a standardized JSON error envelope and aborts
// further handler processing.
func RespondWithError(c *gin.Context, err *APIError) {
	c.JSON(err.StatusCode, envelope{Success: false, Error: err})
	c.Abort()
}

// IsValidEmail checks if a string has a permissive local@domain.tld shape.
// This is the single source of the email rule; the service layer delegates
// here rather than keeping its own copy.
var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.ToLower(email))
}
