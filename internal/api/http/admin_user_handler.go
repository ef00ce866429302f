package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/service"
)

type AdminUserHandler struct {
	customerSvc service.CustomerAdminService
}

func NewAdminUserHandler(customerSvc service.CustomerAdminService) *AdminUserHandler {
	return &AdminUserHandler{customerSvc: customerSvc}
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.UserFilter{
		Search: r.URL.Query().Get("search"),
		Sort:   parseSort(r),
		Page:   parsePage(r),
	}
	users, total, err := h.customerSvc.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []domain.CustomerSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": newPagination(filter.Page, total),
	})
}

func (h *AdminUserHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.customerSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *AdminUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.customerSvc.Update(r.Context(), adminActor(r), mux.Vars(r)["id"], req.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User updated successfully", "user": user})
}

func (h *AdminUserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.customerSvc.ResetPassword(r.Context(), adminActor(r), mux.Vars(r)["id"], req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password reset successfully"})
}

func (h *AdminUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.customerSvc.Delete(r.Context(), adminActor(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

func (h *AdminUserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.customerSvc.Stats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
