// Package httpapi holds the JSON helpers, error mapping and middleware
// shared by the HTTP handlers.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var errBodyTooLarge = errors.New("request body too large")

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error  string            `json:"error,omitempty"`
	Info   string            `json:"message,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewValidator returns a validator that reports JSON field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON reads r's body into dst and validates it.
func DecodeJSON(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return &ValidationError{Err: errors.New("request body is empty")}
		}
		return &ValidationError{Err: err}
	}
	if v == nil {
		return nil
	}
	if err := v.Struct(dst); err != nil {
		return fromValidator(err)
	}
	return nil
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError replies with the status StatusFor picks. Missing-data states
// are reported as informational messages; server errors are logged and
// their detail withheld.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)
	body := ErrorResponse{}

	switch status {
	case http.StatusInternalServerError:
		if logger != nil {
			logger.ErrorContext(r.Context(), "Request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}
		body.Error = http.StatusText(status)
	case http.StatusConflict, http.StatusNotFound:
		body.Info = err.Error()
	default:
		body.Error = err.Error()
		var verr *ValidationError
		if errors.As(err, &verr) {
			body.Fields = verr.Fields
		}
	}

	WriteJSON(w, status, body)
}

// WriteFile sends data as a download named filename.
func WriteFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// URLParam returns the decoded chi route parameter key. chi matches on the
// raw path only when the request carries one.
func URLParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
