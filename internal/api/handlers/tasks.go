package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/taskmanager-backend/internal/api/httpx"
	"github.com/baharkarakas/taskmanager-backend/internal/services"
)

type TaskHandler struct {
	Svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{Svc: svc}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var f services.Fields
	if !decode(w, r, &f) {
		return
	}
	t, err := h.Svc.Create(r.Context(), caller(r).User.ID, f)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

// List: GET /tasks?completed=true&limit=10&skip=20&sortBy=createdAt:desc
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := services.ParseTaskQuery(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	ts, err := h.Svc.List(r.Context(), caller(r).User.ID, q)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ts)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Svc.Get(r.Context(), caller(r).User.ID, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var f services.Fields
	if !decode(w, r, &f) {
		return
	}
	t, err := h.Svc.Update(r.Context(), caller(r).User.ID, chi.URLParam(r, "id"), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := h.Svc.Delete(r.Context(), caller(r).User.ID, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}
