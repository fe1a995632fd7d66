package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/storage"
)

const msgSuccess = "success"

type envelope struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// respond writes data inside a success envelope
func respond(w http.ResponseWriter, data interface{}) {
	writeEnvelope(w, http.StatusOK, envelope{Code: http.StatusOK, Msg: msgSuccess, Data: data})
}

// respondError maps err to a status code and writes it as an error envelope
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
	}
	writeEnvelope(w, code, envelope{Code: code, Msg: err.Error()})
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalid),
		errors.Is(err, database.ErrNoTagNames),
		errors.Is(err, database.ErrInvalidField),
		errors.Is(err, models.ErrInvalidRepeatTime),
		errors.Is(err, kv.ErrEmptyKey),
		errors.Is(err, errBadParam):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// pathParam returns the decoded value of a chi URL parameter. chi matches
// on RawPath when the request has one, and on the already decoded Path
// otherwise, so only the former needs unescaping.
func pathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(v)
		if err != nil {
			return "", fmt.Errorf("%w: %s %q", errBadParam, name, v)
		}
		v = unescaped
	}
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", errBadParam, name)
	}
	return v, nil
}

// decode reads a JSON body into v and validates it
func (s *Server) decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadParam, err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalid, err)
	}
	return nil
}

// writeJSON writes v without an envelope
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
