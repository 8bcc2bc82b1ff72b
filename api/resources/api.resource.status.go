package resources

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abahued/windwall-hub/internal/cleanup"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
	"github.com/abahued/windwall-hub/internal/wallservice"
	nuts "github.com/vaudience/go-nuts"
)

// StatusHandlers encapsulates the device status HTTP handlers
type StatusHandlers struct {
	wallservice *wallservice.WallService
	resets      *cleanup.ResetService
}

type statusRequest struct {
	Status *int `json:"status"`
}

// @Summary Record a heartbeat
// @Description Append a device status event (0 = offline, 1 = online)
// @Tags status
// @Accept json
// @Produce json
// @Param status body statusRequest true "Status value"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.APIError
// @Router /status [post]
func (h *StatusHandlers) RecordStatus(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if req.Status == nil {
		respondWithError(w, errors.NewValidationError("missing 'status' field", nil).WithRequestID(requestID))
		return
	}

	event, err := h.wallservice.RecordStatus(r.Context(), *req.Status)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "New status recorded",
		"status":     event.Status,
		"lastUpdate": event.LastUpdate.Format(models.TimeFormat),
	})
}

// @Summary Current device status
// @Tags status
// @Produce json
// @Success 200 {object} models.StatusEventView
// @Failure 404 {object} map[string]interface{}
// @Router /status [get]
func (h *StatusHandlers) GetCurrentStatus(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	view, err := h.wallservice.CurrentStatus(r.Context())
	if err != nil {
		if errors.IsNotFound(err) {
			respondWithJSON(w, http.StatusNotFound, map[string]interface{}{
				"status":  models.StatusOffline,
				"message": "No status found",
			})
			return
		}
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":     view.Status,
		"lastUpdate": view.LastUpdate,
	})
}

// @Summary Status history
// @Tags status
// @Produce json
// @Success 200 {array} models.StatusEventView
// @Router /status/history [get]
func (h *StatusHandlers) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	views, err := h.wallservice.StatusHistory(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

// @Summary Mark a status id range online
// @Description Flip offline rows in the range to online, timestamps preserved
// @Tags status
// @Accept json
// @Produce json
// @Param range body idRange true "Id range"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.APIError
// @Router /status/range [put]
func (h *StatusHandlers) UpdateStatusRange(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	startID, endID, apiErr := decodeIDRange(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	ids, err := h.wallservice.MarkStatusRangeOnline(r.Context(), startID, endID)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     fmt.Sprintf("%d entries updated from 0 to 1 (timestamp preserved)", len(ids)),
		"updated_ids": ids,
	})
}

// @Summary Delete the newest status event
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /status/latest [delete]
func (h *StatusHandlers) DeleteLatestStatus(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	event, err := h.resets.DeleteLatestStatus(r.Context())
	if err != nil {
		if errors.IsNotFound(err) {
			respondWithJSON(w, http.StatusNotFound, map[string]string{"message": "No status entries found"})
			return
		}
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Last status entry deleted",
		"deleted_entry": event.View(h.wallservice.Zone.Location()),
	})
}

// @Summary Clear the status history
// @Tags status
// @Produce json
// @Success 200 {object} map[string]string
// @Router /status/history [delete]
func (h *StatusHandlers) ResetStatusHistory(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if _, err := h.resets.ResetStatusHistory(r.Context()); err != nil {
		respondWithError(w, errors.NewInternalError("failed to reset status history", err).WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Status history deleted"})
}
