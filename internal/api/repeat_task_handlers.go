package api

import (
	"fmt"
	"net/http"

	"github.com/thenoetrevino/tempo/internal/models"
)

func (s *Server) createRepeatTask(w http.ResponseWriter, r *http.Request) {
	var task models.RepeatTask
	if err := s.decode(r, &task); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.backend.CreateRepeatTask(r.Context(), task)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, created)
}

func (s *Server) listRepeatTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.backend.ListRepeatTasks(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, tasks)
}

func (s *Server) listActiveRepeatTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.backend.ListActiveRepeatTasks(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, tasks)
}

func (s *Server) getRepeatTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	task, err := s.backend.GetRepeatTask(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, task)
}

func (s *Server) updateRepeatTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var task models.RepeatTask
	if err := s.decode(r, &task); err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.backend.UpdateRepeatTask(r.Context(), id, task)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, updated)
}

func (s *Server) deleteRepeatTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.backend.DeleteRepeatTask(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, nil)
}

func (s *Server) setRepeatTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	raw, err := pathParam(r, "status")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	status, ok := models.ParseRepeatTaskStatus(raw)
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: unknown status %q", errBadParam, raw))
		return
	}

	if err := s.backend.SetRepeatTaskStatus(r.Context(), id, status); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, nil)
}
