package httpapi

import (
	"net/http"
	"strings"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/repository"
	"dcmonitor/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// UserHandler dashboard account management
type UserHandler struct {
	users  service.UserService
	logger *zap.Logger
}

func NewUserHandler(users service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.users.List(r.Context(), repository.UserFilters{
		Role:   domain.UserRole(q.Get("role")),
		Status: domain.UserStatus(q.Get("status")),
		Search: strings.TrimSpace(q.Get("q")),
	})
	if err != nil {
		writeError(w, h.logger, "ListUsers", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(newList(users)))
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in service.UserInput
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeError(w, h.logger, "CreateUser", err)
		return
	}
	u, err := h.users.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, "CreateUser", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(u))
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in service.UserInput
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeError(w, h.logger, "UpdateUser", err)
		return
	}
	u, err := h.users.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, h.logger, "UpdateUser", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(u))
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.logger, "DeleteUser", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *UserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.ToggleStatus(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, "ToggleUserStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(u))
}
