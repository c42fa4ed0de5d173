package httpapi

import (
	"net/http"

	"dcmonitor/internal/rack"
	"dcmonitor/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type FacilityHandler struct {
	facility service.FacilityService
	logger   *zap.Logger
}

func NewFacilityHandler(facility service.FacilityService, logger *zap.Logger) *FacilityHandler {
	return &FacilityHandler{facility: facility, logger: logger}
}

func (h *FacilityHandler) ListDataCenters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(newList(h.facility.DataCenters(r.Context()))))
}

func (h *FacilityHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.facility.Rooms(r.Context(), mux.Vars(r)["dcId"])
	if err != nil {
		writeError(w, h.logger, "ListRooms", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(newList(rooms)))
}

func (h *FacilityHandler) ListRacks(w http.ResponseWriter, r *http.Request) {
	racks, err := h.facility.Racks(r.Context(), mux.Vars(r)["roomId"])
	if err != nil {
		writeError(w, h.logger, "ListRacks", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(newList(racks)))
}

func (h *FacilityHandler) GetRack(w http.ResponseWriter, r *http.Request) {
	rk, err := h.facility.Rack(r.Context(), mux.Vars(r)["rackId"])
	if err != nil {
		writeError(w, h.logger, "GetRack", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rk))
}

type rackPositionsResponse struct {
	Column string `json:"column"`
	rack.Placement
}

// RackPositions intake / exhaust faces of racks in one column.
func (h *FacilityHandler) RackPositions(w http.ResponseWriter, r *http.Request) {
	column := mux.Vars(r)["column"]
	p, err := rack.ResolvePositions(column)
	if err != nil {
		writeError(w, h.logger, "RackPositions", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rackPositionsResponse{Column: column, Placement: p}))
}
