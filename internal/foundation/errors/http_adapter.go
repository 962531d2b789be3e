package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// httpStatuses maps categories to response statuses; the rest answer 500.
var httpStatuses = map[ErrorCategory]int{
	CategoryValidation: http.StatusBadRequest,
	CategoryConfig:     http.StatusBadRequest,
	CategoryNotFound:   http.StatusNotFound,
	CategoryFetch:      http.StatusBadGateway,
	CategoryRuntime:    http.StatusServiceUnavailable,
}

// HTTPErrorAdapter writes classified errors as JSON responses.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter falls back to slog.Default when logger is nil.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON body of an error response.
type HTTPErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	c, ok := AsClassified(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if c.category.content() {
		return http.StatusUnprocessableEntity
	}
	if status, ok := httpStatuses[c.category]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteErrorResponse writes the payload for err and logs it at the level of
// its severity.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	status := a.StatusCodeFor(err)
	body, jerr := json.Marshal(a.FormatErrorResponse(err))
	if jerr != nil {
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)

	level := slog.LevelError
	if c, ok := AsClassified(err); ok {
		level = levelFor(c.severity)
	}
	a.logger.Log(r.Context(), level, err.Error(), slog.Int("status", status), slog.String("path", r.URL.Path))
}

// FormatErrorResponse never includes the cause; clients only see the
// classified message and context.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{}
	}
	c, ok := AsClassified(err)
	if !ok {
		return HTTPErrorResponse{Error: "internal error"}
	}
	resp := HTTPErrorResponse{Error: c.message, Code: string(c.category)}
	if len(c.context) > 0 {
		resp.Details = c.context
	}
	return resp
}
