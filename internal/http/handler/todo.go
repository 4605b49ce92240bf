package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seojin-ahn/todoboard/internal/middleware"
	"github.com/seojin-ahn/todoboard/internal/service"
)

const maxBodySize = 1 << 20 // 1 MB

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.ProfileFrom(r)

	todos, err := h.svc.List(r.Context(), p.UID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todos)
}

type createTodoRequest struct {
	Text    string  `json:"text"`
	DueDate *string `json:"dueDate"`
	Done    *bool   `json:"done"`
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.ProfileFrom(r)

	var req createTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	todo, err := h.svc.Create(r.Context(), p.UID, service.CreateTodoInput{
		Text:    req.Text,
		DueDate: req.DueDate,
		Done:    req.Done,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, todo)
}

type updateTodoRequest struct {
	Text    *string `json:"text"`
	DueDate *string `json:"dueDate"`
	Done    *bool   `json:"done"`
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.ProfileFrom(r)
	todoID := chi.URLParam(r, "id")

	var req updateTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	todo, err := h.svc.Update(r.Context(), p.UID, todoID, service.UpdateTodoInput{
		Text:    req.Text,
		DueDate: req.DueDate,
		Done:    req.Done,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.ProfileFrom(r)
	todoID := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), p.UID, todoID); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// decodeBody parses a JSON body with a size cap, writing the 400 itself on
// failure so callers can just return.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return err
	}
	return nil
}
