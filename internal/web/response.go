package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/prepstock/internal/form"
)

const maxJSONBody = 1 << 20

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// validationError reports form field errors as a 400.
func validationError(w http.ResponseWriter, errs form.Errors) {
	jsonResponse(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": errs,
	})
}

// decodeJSON decodes a bounded JSON request body into target, rejecting
// unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer closeWithLog(r.Body, "request body")

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string) {
	if err := c.Close(); err != nil {
		slog.Error("failed to close resource", "label", label, "error", err)
	}
}
