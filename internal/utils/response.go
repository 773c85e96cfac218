package utils

import (
	"net/http"
	"time"
)

// APIResponse is the lookup service's JSON envelope. Path echoes the resolved
// request path; QRURL is set on specimen lookups to the URL the printed code
// carries.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Path      string      `json:"path"`
	QRURL     string      `json:"qrUrl,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func SuccessResponse(r *http.Request, message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Path:      r.URL.Path,
		Data:      data,
		Timestamp: Timestamp(time.Now()),
	}
}

// ErrorResponse uses the status text as the message.
func ErrorResponse(r *http.Request, status int, err error) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   http.StatusText(status),
		Path:      r.URL.Path,
		Error:     err.Error(),
		Timestamp: Timestamp(time.Now()),
	}
}

func (a APIResponse) WithQRURL(url string) APIResponse {
	a.QRURL = url
	return a
}
