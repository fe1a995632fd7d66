package api

import (
	"fmt"
	"io"
	"net/http"
)

// maxValueSize caps PUT /kv bodies
const maxValueSize = 1 << 20

func (s *Server) getKV(w http.ResponseWriter, r *http.Request) {
	key, err := pathParam(r, "key")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	value, err := s.kv.Get(key, "")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, value)
}

// setKV stores the raw request body as the value
func (s *Server) setKV(w http.ResponseWriter, r *http.Request) {
	key, err := pathParam(r, "key")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxValueSize))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: failed to read body: %v", errBadParam, err))
		return
	}

	if err := s.kv.Set(key, string(body)); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, nil)
}

func (s *Server) deleteKV(w http.ResponseWriter, r *http.Request) {
	key, err := pathParam(r, "key")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.kv.Delete(key); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, nil)
}
