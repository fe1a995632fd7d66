package api

import "net/http"

type tagsRequest struct {
	Names string `json:"names" validate:"required"`
}

func (s *Server) createTags(w http.ResponseWriter, r *http.Request) {
	var req tagsRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.backend.CreateTag(r.Context(), req.Names); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, nil)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.backend.GetAllTags(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, tags)
}

func (s *Server) deleteTags(w http.ResponseWriter, r *http.Request) {
	names, err := pathParam(r, "names")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.backend.DeleteTag(r.Context(), names); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, nil)
}

func (s *Server) touchTags(w http.ResponseWriter, r *http.Request) {
	names, err := pathParam(r, "names")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.backend.UpdateTagLastUsedAt(r.Context(), names); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, nil)
}
