package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/models"
)

func (s *Server) createMatter(w http.ResponseWriter, r *http.Request) {
	var m models.Matter
	if err := s.decode(r, &m); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.backend.CreateMatter(r.Context(), m)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, created)
}

func (s *Server) listMatters(w http.ResponseWriter, r *http.Request) {
	matters, err := s.backend.ListMatters(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, matters)
}

func (s *Server) listMattersByRange(w http.ResponseWriter, r *http.Request) {
	start, err := queryTime(r, "start")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	end, err := queryTime(r, "end")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	matters, err := s.backend.ListMattersByRange(r.Context(), start, end)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, matters)
}

func (s *Server) queryMatters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field := q.Get("field")
	if field == "" {
		s.respondError(w, r, fmt.Errorf("%w: field is required; valid fields are: %s",
			errBadParam, strings.Join(database.QueryableMatterFields(), ", ")))
		return
	}

	exact := false
	if raw := q.Get("exact_match"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("%w: exact_match %q", errBadParam, raw))
			return
		}
		exact = v
	}

	matters, err := s.backend.QueryMatters(r.Context(), field, q.Get("value"), exact)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, matters)
}

func (s *Server) getMatter(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	m, err := s.backend.GetMatter(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, m)
}

func (s *Server) updateMatter(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var m models.Matter
	if err := s.decode(r, &m); err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.backend.UpdateMatter(r.Context(), id, m)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, updated)
}

func (s *Server) deleteMatter(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.backend.DeleteMatter(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, nil)
}

// queryTime parses an RFC 3339 query parameter
func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", errBadParam, name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not RFC 3339", errBadParam, name, raw)
	}
	return t, nil
}
