package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Envelope is the JSON shape of every API response: data on success,
// error on failure, never both, always with tracing metadata.
type Envelope struct {
	Data       interface{} `json:"data"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

// ErrorBody carries a machine-readable code, its human message, and
// optional per-field details for validation failures.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Metadata carries the request ID and response timestamp.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// Success sends data with the given status code.
func Success(c *gin.Context, statusCode int, data interface{}) {
	send(c, statusCode, Envelope{Data: data})
}

// SuccessWithPagination sends a paginated list response.
func SuccessWithPagination(c *gin.Context, statusCode int, data interface{}, pagination *Pagination) {
	send(c, statusCode, Envelope{Data: data, Pagination: pagination})
}

// Fail sends an error response for the given code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	send(c, statusCode, Envelope{Error: newErrorBody(code, nil)})
}

// FailWithFields sends an error response with per-field details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	send(c, statusCode, Envelope{Error: newErrorBody(code, fields)})
}

// AbortFail sends an error response and stops the middleware chain.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.Abort()
	send(c, statusCode, Envelope{Error: newErrorBody(code, nil)})
}

func newErrorBody(code ErrCode, fields map[string]string) *ErrorBody {
	return &ErrorBody{Code: code, Message: GetMessage(code), Fields: fields}
}

func send(c *gin.Context, statusCode int, env Envelope) {
	env.Metadata = Metadata{
		RequestID: requestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	c.JSON(statusCode, env)
}

// requestID reads the ID set by RequestIDMiddleware, minting one when
// the middleware was not applied.
func requestID(c *gin.Context) string {
	if id, ok := c.Get(ContextKeyRequestID); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return uuid.New().String()
}
