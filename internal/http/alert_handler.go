package httpapi

import (
	"net/http"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/repository"
	"dcmonitor/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AlertHandler struct {
	rules   service.AlertRuleService
	history service.AlertHistoryService
	logger  *zap.Logger
}

func NewAlertHandler(rules service.AlertRuleService, history service.AlertHistoryService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{rules: rules, history: history, logger: logger}
}

// ============================================
// Alert rules
// ============================================

func (h *AlertHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.rules.List(r.Context())
	if err != nil {
		writeError(w, h.logger, "ListAlertRules", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(newList(rules)))
}

func (h *AlertHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.rules.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, "GetAlertRule", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rule))
}

func (h *AlertHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var in service.AlertRuleInput
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeError(w, h.logger, "CreateAlertRule", err)
		return
	}
	rule, err := h.rules.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, "CreateAlertRule", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(rule))
}

func (h *AlertHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var in service.AlertRuleInput
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeError(w, h.logger, "UpdateAlertRule", err)
		return
	}
	rule, err := h.rules.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, h.logger, "UpdateAlertRule", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rule))
}

func (h *AlertHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.rules.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.logger, "DeleteAlertRule", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *AlertHandler) ToggleRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.rules.Toggle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, "ToggleAlertRule", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rule))
}

// ============================================
// Alert history
// ============================================

type historyList struct {
	ListResult[domain.AlertHistory]
	ActiveCount int `json:"active_count"`
}

func (h *AlertHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.history.List(r.Context(), repository.AlertHistoryFilters{
		Status:   domain.AlertStatus(q.Get("status")),
		Severity: domain.AlertSeverity(q.Get("severity")),
	})
	if err != nil {
		writeError(w, h.logger, "ListAlertHistory", err)
		return
	}
	active, err := h.history.ActiveCount(r.Context())
	if err != nil {
		writeError(w, h.logger, "ListAlertHistory", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(historyList{ListResult: newList(items), ActiveCount: active}))
}

type acknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledged_by"`
}

func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	var req acknowledgeRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "AcknowledgeAlert", err)
		return
	}
	alert, err := h.history.Acknowledge(r.Context(), mux.Vars(r)["id"], req.AcknowledgedBy)
	if err != nil {
		writeError(w, h.logger, "AcknowledgeAlert", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(alert))
}

func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	alert, err := h.history.Resolve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, "ResolveAlert", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(alert))
}
