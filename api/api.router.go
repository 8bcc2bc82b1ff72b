package api

import (
	"net/http"

	"github.com/abahued/windwall-hub/api/resources"
	"github.com/abahued/windwall-hub/internal/cleanup"
	"github.com/abahued/windwall-hub/internal/wallservice"
	"github.com/gorilla/mux"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
}

func NewRouter(svc *wallservice.WallService, resets *cleanup.ResetService) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc, resets),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)

	// Readings
	readings := api.PathPrefix("/readings").Subrouter()
	readings.HandleFunc("", r.resources.Readings.IngestReading).Methods(http.MethodPost)
	readings.HandleFunc("", r.resources.Readings.ListReadings).Methods(http.MethodGet)
	readings.HandleFunc("", r.resources.Readings.ResetAll).Methods(http.MethodDelete)
	readings.HandleFunc("/latest", r.resources.Readings.GetLatestReading).Methods(http.MethodGet)
	readings.HandleFunc("/latest", r.resources.Readings.DeleteLatestReading).Methods(http.MethodDelete)
	readings.HandleFunc("/latest/{group:[0-9]+}", r.resources.Readings.GetLatestReadingByGroup).Methods(http.MethodGet)
	readings.HandleFunc("/hours", r.resources.Readings.GetHourlyTotals).Methods(http.MethodGet)
	readings.HandleFunc("/hours/{number:[0-9]+}", r.resources.Readings.GetHourTotal).Methods(http.MethodGet)
	readings.HandleFunc("/minutes", r.resources.Readings.GetMinuteTotals).Methods(http.MethodGet)
	readings.HandleFunc("/groups", r.resources.Readings.GetGroupTotals).Methods(http.MethodGet)
	readings.HandleFunc("/snapshot", r.resources.Readings.ResetSnapshot).Methods(http.MethodDelete)
	readings.HandleFunc("/zeros", r.resources.Readings.PurgeZeroReadings).Methods(http.MethodDelete)
	readings.HandleFunc("/range", r.resources.Readings.DeleteReadingRange).Methods(http.MethodDelete)

	// Daily rollups
	days := api.PathPrefix("/days").Subrouter()
	days.HandleFunc("", r.resources.Rollups.ListDays).Methods(http.MethodGet)
	days.HandleFunc("/current", r.resources.Rollups.GetCurrentDay).Methods(http.MethodGet)
	days.HandleFunc("/last30", r.resources.Rollups.GetLast30Days).Methods(http.MethodGet)
	days.HandleFunc("/week", r.resources.Rollups.GetCurrentWeek).Methods(http.MethodGet)
	days.HandleFunc("/{number:[0-9]+}", r.resources.Rollups.GetDayOfMonthTotal).Methods(http.MethodGet)

	// Monthly rollups and grand total
	months := api.PathPrefix("/months").Subrouter()
	months.HandleFunc("", r.resources.Rollups.ListMonths).Methods(http.MethodGet)
	months.HandleFunc("/current", r.resources.Rollups.GetCurrentMonth).Methods(http.MethodGet)
	months.HandleFunc("/totals", r.resources.Rollups.GetMonthNumberTotals).Methods(http.MethodGet)
	api.HandleFunc("/total", r.resources.Rollups.GetGrandTotal).Methods(http.MethodGet)

	// Device status
	status := api.PathPrefix("/status").Subrouter()
	status.HandleFunc("", r.resources.Status.RecordStatus).Methods(http.MethodPost)
	status.HandleFunc("", r.resources.Status.GetCurrentStatus).Methods(http.MethodGet)
	status.HandleFunc("/history", r.resources.Status.GetStatusHistory).Methods(http.MethodGet)
	status.HandleFunc("/history", r.resources.Status.ResetStatusHistory).Methods(http.MethodDelete)
	status.HandleFunc("/latest", r.resources.Status.DeleteLatestStatus).Methods(http.MethodDelete)
	status.HandleFunc("/range", r.resources.Status.UpdateStatusRange).Methods(http.MethodPut)
}

// SetHealthCheck installs the health handler before the routes are served.
func (r *Router) SetHealthCheck(h func(w http.ResponseWriter, req *http.Request)) {
	r.resources.SetHealthCheck(h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
