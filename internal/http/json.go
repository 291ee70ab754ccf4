package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/service"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		WriteError(w, ErrorParams{Code: code, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a transport-level JSON error (bad JSON, missing workspace, ...).
// Controller outcomes go through respond instead.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, Response{
		Error:   &ErrorBody{Code: apperrors.ErrorCode(p.ErrCode), Message: p.Err.Error()},
		Notices: []notify.Notice{},
	})
}

// Response is the envelope of every /ui response.
type Response struct {
	Data       any             `json:"data,omitempty"`
	Error      *ErrorBody      `json:"error,omitempty"`
	Notices    []notify.Notice `json:"notices"`
	RedirectTo string          `json:"redirect_to,omitempty"`
}

// ErrorBody is the user-facing part of a failed operation.
type ErrorBody struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Field   string              `json:"field,omitempty"`
}

// respond writes the outcome of a controller call together with the
// workspace's pending notices and navigation. Notices are drained so each is
// delivered once.
func respond(w http.ResponseWriter, ws *service.Workspace, data any, err error) {
	resp := Response{
		Data:       data,
		Notices:    ws.Notices.Drain(),
		RedirectTo: ws.Redirects.Take(),
	}
	if resp.Notices == nil {
		resp.Notices = []notify.Notice{}
	}

	status := http.StatusOK
	if err != nil {
		status = StatusFor(err)
		code := apperrors.GetCode(err)
		if code == "" {
			code = apperrors.ErrCodeInternal
		}
		resp.Error = &ErrorBody{
			Code:    code,
			Message: apperrors.UserMessage(err, http.StatusText(status)),
			Field:   apperrors.GetField(err),
		}
	}
	WriteJSON(w, status, resp)
}

// StatusFor maps an error to the gateway's HTTP status.
func StatusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeVerificationRequired:
		return http.StatusForbidden
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeRejected:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeBusy:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
