package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	categoriesdomain "finance-tracker-go/internal/domain/categories"
	"finance-tracker-go/internal/transport/httpserver/middleware"
)

type createCategoryRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	kind := categoriesdomain.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
	if kind == "" {
		kind = categoriesdomain.KindExpense
	}
	if kind != categoriesdomain.KindExpense && kind != categoriesdomain.KindIncome {
		writeError(w, http.StatusBadRequest, "invalid_request", "kind must be expense or income")
		return
	}

	items, err := h.Categories.List(r.Context(), userID, kind)
	if err != nil {
		h.log.InternalError("categories.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]categoryResponse, 0, len(items))
	for _, category := range items {
		response = append(response, toCategoryResponse(category))
	}
	writeJSON(w, http.StatusOK, categoryListResponse{Items: response})
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	kind := categoriesdomain.Kind(strings.TrimSpace(req.Kind))
	if kind != categoriesdomain.KindExpense && kind != categoriesdomain.KindIncome {
		writeError(w, http.StatusBadRequest, "invalid_request", "kind must be expense or income")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	created, err := h.Categories.Create(r.Context(), userID, kind, req.Name)
	if err != nil {
		if errors.Is(err, categoriesdomain.ErrCategoryNameTaken) {
			h.log.BusinessError("categories.create: name taken", err, "user_id", userID)
			writeError(w, http.StatusConflict, "category_name_taken", "category already exists")
			return
		}
		h.log.InternalError("categories.create: create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(*created))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := strings.TrimSpace(chi.URLParam(r, "id"))
	if categoryID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
		return
	}

	if err := h.Categories.Delete(r.Context(), userID, categoryID); err != nil {
		if errors.Is(err, categoriesdomain.ErrCategoryNotFound) {
			h.log.BusinessError("categories.delete: category not found", err, "user_id", userID, "category_id", categoryID)
			writeError(w, http.StatusNotFound, "category_not_found", "category not found")
			return
		}
		h.log.InternalError("categories.delete: delete failed", err, "user_id", userID, "category_id", categoryID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type categoryListResponse struct {
	Items []categoryResponse `json:"items"`
}

func toCategoryResponse(category categoriesdomain.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Kind:      string(category.Kind),
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}
}
