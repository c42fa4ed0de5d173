package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"dcmonitor/internal/metrics"
	"dcmonitor/internal/rack"
	"dcmonitor/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SensorHandler struct {
	sensors service.SensorService
	history service.SensorHistoryService
	heatmap service.HeatmapService
	export  service.ExportService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewSensorHandler(
	sensors service.SensorService,
	history service.SensorHistoryService,
	heatmap service.HeatmapService,
	export service.ExportService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SensorHandler {
	return &SensorHandler{sensors: sensors, history: history, heatmap: heatmap, export: export, metrics: m, logger: logger}
}

func filterFromQuery(r *http.Request) service.SensorFilter {
	q := r.URL.Query()
	return service.SensorFilter{
		DCID:     q.Get("dc_id"),
		RoomID:   q.Get("room_id"),
		Column:   q.Get("column"),
		Position: rack.Position(q.Get("position")),
		Search:   q.Get("q"),
	}
}

func (h *SensorHandler) Current(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sensors.Current(r.Context(), r.URL.Query().Get("room_id"))
	if err != nil {
		writeError(w, h.logger, "CurrentSensorData", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(snap))
}

func (h *SensorHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.sensors.Summary(r.Context(), r.URL.Query().Get("room_id"))
	if err != nil {
		writeError(w, h.logger, "SensorSummary", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(sum))
}

func (h *SensorHandler) List(w http.ResponseWriter, r *http.Request) {
	sensors, err := h.sensors.Query(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, "ListSensors", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(newList(sensors)))
}

// Export streams the filtered sensors as a csv or xlsx attachment.
func (h *SensorHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := service.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, h.logger, "ExportSensors", err)
		return
	}
	file, err := h.export.Export(r.Context(), filterFromQuery(r), format)
	if err != nil {
		writeError(w, h.logger, "ExportSensors", err)
		return
	}
	h.metrics.Export(string(format))

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Body); err != nil {
		h.logger.Warn("Failed to write export body", zap.String("filename", file.Filename), zap.Error(err))
	}
}

// metricFromQuery reads ?type=; empty leaves the service default.
func metricFromQuery(r *http.Request) (rack.MetricType, error) {
	t := r.URL.Query().Get("type")
	if t == "" {
		return "", nil
	}
	return rack.ParseMetricType(t)
}

func (h *SensorHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	metric, err := metricFromQuery(r)
	if err != nil {
		writeError(w, h.logger, "Heatmap", err)
		return
	}
	resp, err := h.heatmap.Build(r.Context(), r.URL.Query().Get("room_id"), metric)
	if err != nil {
		writeError(w, h.logger, "Heatmap", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *SensorHandler) History(w http.ResponseWriter, r *http.Request) {
	resp, err := h.history.History(r.Context(), mux.Vars(r)["sensorId"])
	if err != nil {
		writeError(w, h.logger, "SensorHistory", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Compare accepts ?ids=a,b or ?column=&position=&room_id=, plus ?type=.
func (h *SensorHandler) Compare(w http.ResponseWriter, r *http.Request) {
	metric, err := metricFromQuery(r)
	if err != nil {
		writeError(w, h.logger, "CompareSensors", err)
		return
	}
	q := r.URL.Query()
	var ids []string
	for _, v := range q["ids"] {
		ids = append(ids, strings.Split(v, ",")...)
	}
	resp, err := h.history.Compare(r.Context(), service.CompareRequest{
		SensorIDs: ids,
		RoomID:    q.Get("room_id"),
		Column:    q.Get("column"),
		Position:  rack.Position(q.Get("position")),
		Metric:    metric,
	})
	if err != nil {
		writeError(w, h.logger, "CompareSensors", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
