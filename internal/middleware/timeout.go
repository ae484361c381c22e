package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"clinic-portal/internal/model"
)

var timeoutBody = func() string {
	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Error:   &model.APIError{Code: "REQUEST_TIMEOUT", Message: "request timed out"},
	})
	return string(body)
}()

// Timeout bounds handler time. The gate and the session lookup run inside it,
// so a stalled credential store surfaces as 503 instead of hanging.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}
