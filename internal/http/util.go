package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
	"dcmonitor/internal/repository"
	"dcmonitor/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readBodyJSON an empty body leaves out untouched.
func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, rack.ErrInvalidColumn),
		errors.Is(err, rack.ErrUnknownMetric),
		errors.Is(err, rack.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError maps err to a status; internal errors are logged and hidden.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
		writeJSON(w, status, Fail("internal server error"))
		return
	}
	writeJSON(w, status, Fail(err.Error()))
}
