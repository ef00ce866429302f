package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/service"
)

type AdminAuthHandler struct {
	adminSvc service.AdminAuthService
}

func NewAdminAuthHandler(adminSvc service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{adminSvc: adminSvc}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createAdminRequest struct {
	Username string           `json:"username"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	FullName string           `json:"full_name"`
	Role     domain.AdminRole `json:"role"`
}

type updateAdminRequest struct {
	Email    *string           `json:"email"`
	FullName *string           `json:"full_name"`
	Role     *domain.AdminRole `json:"role"`
	IsActive *bool             `json:"is_active"`
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	admin, token, err := h.adminSvc.Login(r.Context(), req.Username, req.Password, requestMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "token": token, "admin": admin})
}

func (h *AdminAuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, err := h.adminSvc.Me(r.Context(), adminActor(r).AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"admin": admin})
}

// Logout is stateless. The client drops its token.
func (h *AdminAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (h *AdminAuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.adminSvc.ChangePassword(r.Context(), adminActor(r).AdminID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password changed successfully"})
}

func (h *AdminAuthHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminSvc.ListAdmins(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if admins == nil {
		admins = []domain.AdminUser{}
	}
	writeJSON(w, http.StatusOK, admins)
}

func (h *AdminAuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	admin, err := h.adminSvc.CreateAdmin(r.Context(), adminActor(r), service.CreateAdminInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Admin created successfully", "admin": admin})
}

func (h *AdminAuthHandler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var req updateAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	patch := repository.AdminPatch{Email: req.Email, FullName: req.FullName, Role: req.Role, IsActive: req.IsActive}
	admin, err := h.adminSvc.UpdateAdmin(r.Context(), adminActor(r), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Admin updated successfully", "admin": admin})
}
