package httpapi

import (
	"net/http"

	"dcmonitor/internal/metrics"
	"dcmonitor/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Services everything the API handlers read from or write to
type Services struct {
	Facility     service.FacilityService
	Sensors      service.SensorService
	History      service.SensorHistoryService
	Heatmap      service.HeatmapService
	Export       service.ExportService
	AlertRules   service.AlertRuleService
	AlertHistory service.AlertHistoryService
	Users        service.UserService
	Auth         *service.AuthService
}

type Options struct {
	AuthRequired bool
	// CORSOrigins empty leaves CORS headers off
	CORSOrigins  []string
	Metrics      *metrics.Metrics
}

// NewRouter builds the full dcmonitor HTTP API.
func NewRouter(svc Services, opts Options, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, Fail("route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
	})
	r.Use(accessLog(logger, opts.Metrics))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)

	auth := NewAuthHandler(svc.Auth, logger)
	r.HandleFunc("/api/auth/login", auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", auth.Logout).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	if opts.AuthRequired {
		api.Use(requireAuth(svc.Auth))
	}

	facility := NewFacilityHandler(svc.Facility, logger)
	api.HandleFunc("/datacenters", facility.ListDataCenters).Methods(http.MethodGet)
	api.HandleFunc("/datacenters/{dcId}/rooms", facility.ListRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}/racks", facility.ListRacks).Methods(http.MethodGet)
	api.HandleFunc("/racks/{rackId}", facility.GetRack).Methods(http.MethodGet)
	api.HandleFunc("/rack-positions/{column}", facility.RackPositions).Methods(http.MethodGet)

	sensors := NewSensorHandler(svc.Sensors, svc.History, svc.Heatmap, svc.Export, opts.Metrics, logger)
	api.HandleFunc("/sensor-data/current", sensors.Current).Methods(http.MethodGet)
	api.HandleFunc("/sensor-data/summary", sensors.Summary).Methods(http.MethodGet)
	api.HandleFunc("/sensors", sensors.List).Methods(http.MethodGet)
	api.HandleFunc("/sensors/export", sensors.Export).Methods(http.MethodGet)
	api.HandleFunc("/sensors/compare", sensors.Compare).Methods(http.MethodGet)
	api.HandleFunc("/sensors/{sensorId}/history", sensors.History).Methods(http.MethodGet)
	api.HandleFunc("/heatmap-data", sensors.Heatmap).Methods(http.MethodGet)

	alerts := NewAlertHandler(svc.AlertRules, svc.AlertHistory, logger)
	api.HandleFunc("/alert-rules", alerts.ListRules).Methods(http.MethodGet)
	api.HandleFunc("/alert-rules", alerts.CreateRule).Methods(http.MethodPost)
	api.HandleFunc("/alert-rules/{id}", alerts.GetRule).Methods(http.MethodGet)
	api.HandleFunc("/alert-rules/{id}", alerts.UpdateRule).Methods(http.MethodPut)
	api.HandleFunc("/alert-rules/{id}", alerts.DeleteRule).Methods(http.MethodDelete)
	api.HandleFunc("/alert-rules/{id}/toggle", alerts.ToggleRule).Methods(http.MethodPost)
	api.HandleFunc("/alert-history", alerts.ListHistory).Methods(http.MethodGet)
	api.HandleFunc("/alert-history/{id}/acknowledge", alerts.Acknowledge).Methods(http.MethodPost)
	api.HandleFunc("/alert-history/{id}/resolve", alerts.Resolve).Methods(http.MethodPost)

	users := NewUserHandler(svc.Users, logger)
	api.HandleFunc("/users", users.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", users.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", users.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", users.DeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/users/{id}/toggle-status", users.ToggleStatus).Methods(http.MethodPost)

	var h http.Handler = r
	if len(opts.CORSOrigins) > 0 {
		h = handlers.CORS(corsOptions(opts.CORSOrigins)...)(h)
	}
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(true),
	)(h)
	return h
}

// corsOptions allows the auth cookie cross-origin only for explicit origins;
// browsers reject credentialed responses carrying a wildcard origin.
func corsOptions(origins []string) []handlers.CORSOption {
	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	}
	for _, o := range origins {
		if o == "*" {
			return opts
		}
	}
	return append(opts, handlers.AllowCredentials())
}
