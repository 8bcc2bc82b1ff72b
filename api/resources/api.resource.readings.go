package resources

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abahued/windwall-hub/internal/cleanup"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
	"github.com/abahued/windwall-hub/internal/wallservice"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// ReadingHandlers encapsulates the reading-related HTTP handlers
type ReadingHandlers struct {
	wallservice *wallservice.WallService
	resets      *cleanup.ResetService
}

// ingestRequest is the device payload. Pointer fields distinguish missing
// values from zeros.
type ingestRequest struct {
	Group      int      `json:"group"`
	Propeller1 *float64 `json:"propeller1"`
	Propeller2 *float64 `json:"propeller2"`
	Propeller3 *float64 `json:"propeller3"`
	Propeller4 *float64 `json:"propeller4"`
	Propeller5 *float64 `json:"propeller5"`
}

// dateQuery carries the optional date parameter of the derived views.
type dateQuery struct {
	Date string `schema:"date"`
}

// @Summary Ingest a reading
// @Description Record one sampled set of the five propeller values
// @Tags readings
// @Accept json
// @Produce json
// @Param reading body ingestRequest true "Propeller values"
// @Success 200 {object} models.ReadingView
// @Failure 400 {object} errors.APIError
// @Router /readings [post]
func (h *ReadingHandlers) IngestReading(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if req.Propeller1 == nil || req.Propeller2 == nil || req.Propeller3 == nil ||
		req.Propeller4 == nil || req.Propeller5 == nil {
		respondWithError(w, errors.NewValidationError("missing propeller values", nil).WithRequestID(requestID))
		return
	}

	props := [5]float64{*req.Propeller1, *req.Propeller2, *req.Propeller3, *req.Propeller4, *req.Propeller5}
	reading, accepted, err := h.wallservice.RecordReading(r.Context(), req.Group, props)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	if !accepted {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"message": "Data not saved. Total sum is less than 0.2",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, reading.View())
}

// @Summary Latest reading
// @Description Get the most recent reading overall
// @Tags readings
// @Produce json
// @Success 200 {object} models.ReadingView
// @Router /readings/latest [get]
func (h *ReadingHandlers) GetLatestReading(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	view, err := h.wallservice.LatestReading(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// @Summary Latest reading per group
// @Description Get the most recent snapshot reading for one group
// @Tags readings
// @Produce json
// @Param group path int true "Group number"
// @Success 200 {object} models.ReadingView
// @Router /readings/latest/{group} [get]
func (h *ReadingHandlers) GetLatestReadingByGroup(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	group, apiErr := pathInt(mux.Vars(r), "group")
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	view, err := h.wallservice.LatestReadingByGroup(r.Context(), group)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// @Summary Full reading history
// @Tags readings
// @Produce json
// @Success 200 {array} models.ReadingView
// @Router /readings [get]
func (h *ReadingHandlers) ListReadings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	views, err := h.wallservice.AllReadings(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

// @Summary Hourly totals
// @Description Calibrated totals bucketed into hours 0-23 for one date
// @Tags readings
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[int]float64
// @Failure 400 {object} errors.APIError
// @Router /readings/hours [get]
func (h *ReadingHandlers) GetHourlyTotals(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q dateQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	day := h.wallservice.Zone.LocalDay(h.wallservice.Clock)
	if q.Date != "" {
		parsed, err := time.ParseInLocation(models.DateFormat, q.Date, h.wallservice.Zone.Location())
		if err != nil {
			respondWithError(w, errors.NewValidationError("invalid date format, use YYYY-MM-DD", err).WithRequestID(requestID))
			return
		}
		day = parsed
	}

	totals, err := h.wallservice.HourlyTotals(r.Context(), day)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, totals)
}

// @Summary Minute totals
// @Description Calibrated per-propeller totals bucketed into minutes 0-59 of one hour
// @Tags readings
// @Produce json
// @Param date query string true "Moment (YYYY-MM-DD HH:MM:SS) selecting the hour"
// @Success 200 {object} map[int]models.MinuteTotal
// @Failure 400 {object} errors.APIError
// @Router /readings/minutes [get]
func (h *ReadingHandlers) GetMinuteTotals(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q dateQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	if q.Date == "" {
		respondWithError(w, errors.NewValidationError("date parameter is required", nil).WithRequestID(requestID))
		return
	}

	moment, err := time.ParseInLocation(models.TimeFormat, q.Date, h.wallservice.Zone.Location())
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid date format, use YYYY-MM-DD HH:MM:SS", err).WithRequestID(requestID))
		return
	}

	totals, err := h.wallservice.MinuteTotals(r.Context(), moment)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, totals)
}

// @Summary Raw total of one hour today
// @Tags readings
// @Produce json
// @Param number path int true "Hour 0-23"
// @Success 200 {object} map[string]interface{}
// @Router /readings/hours/{number} [get]
func (h *ReadingHandlers) GetHourTotal(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	hour, apiErr := pathInt(mux.Vars(r), "number")
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	total, err := h.wallservice.HourTotal(r.Context(), hour)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"hour": hour, "total": total})
}

// @Summary Per-group history totals
// @Tags readings
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /readings/groups [get]
func (h *ReadingHandlers) GetGroupTotals(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	totals, err := h.wallservice.GroupTotals(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, totals)
}

// @Summary Reset readings and rollups
// @Description Delete the reading history and all rollup tables
// @Tags readings
// @Produce json
// @Success 200 {object} map[string]string
// @Router /readings [delete]
func (h *ReadingHandlers) ResetAll(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := h.resets.ResetAll(r.Context()); err != nil {
		respondWithError(w, errors.NewInternalError("failed to reset data", err).WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "All data has been deleted"})
}

// @Summary Clear the snapshot table
// @Tags readings
// @Produce json
// @Success 200 {object} map[string]string
// @Router /readings/snapshot [delete]
func (h *ReadingHandlers) ResetSnapshot(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := h.resets.ResetSnapshot(r.Context()); err != nil {
		respondWithError(w, errors.NewInternalError("failed to clear snapshot table", err).WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "All data has been deleted"})
}

// @Summary Purge all-zero readings
// @Tags readings
// @Produce json
// @Success 200 {object} map[string]string
// @Router /readings/zeros [delete]
func (h *ReadingHandlers) PurgeZeroReadings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if _, err := h.resets.PurgeZeroReadings(r.Context()); err != nil {
		respondWithError(w, errors.NewInternalError("failed to purge zero readings", err).WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "All zeros have been deleted"})
}

// @Summary Delete the newest reading
// @Tags readings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /readings/latest [delete]
func (h *ReadingHandlers) DeleteLatestReading(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	reading, err := h.resets.DeleteLatestReading(r.Context())
	if err != nil {
		if errors.IsNotFound(err) {
			respondWithJSON(w, http.StatusNotFound, map[string]string{"message": "No reading entries found"})
			return
		}
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Last reading entry deleted",
		"deleted_entry": reading.View(),
	})
}

// @Summary Delete a contiguous id range of readings
// @Tags readings
// @Accept json
// @Produce json
// @Param range body idRange true "Id range"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.APIError
// @Router /readings/range [delete]
func (h *ReadingHandlers) DeleteReadingRange(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	startID, endID, apiErr := decodeIDRange(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	deleted, err := h.resets.DeleteReadingRange(r.Context(), startID, endID)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("%d entries deleted from readings", deleted),
		"range":   fmt.Sprintf("%d to %d", startID, endID),
	})
}
