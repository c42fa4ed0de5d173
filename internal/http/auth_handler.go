package httpapi

import (
	"net/http"

	"dcmonitor/internal/service"

	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login sets the session cookie on valid credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "Login", err)
		return
	}
	cookie, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Login rejected", zap.String("username", req.Username))
		writeError(w, h.logger, "Login", err)
		return
	}
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, Ok(map[string]string{"username": req.Username}))
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.auth.LogoutCookie())
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
