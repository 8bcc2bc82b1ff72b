// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/abahued/windwall-hub/internal/cleanup"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/wallservice"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Readings    *ReadingHandlers
	Rollups     *RollupHandlers
	Status      *StatusHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *wallservice.WallService, resets *cleanup.ResetService) *Resources {
	return &Resources{
		Readings: &ReadingHandlers{wallservice: svc, resets: resets},
		Rollups:  &RollupHandlers{wallservice: svc},
		Status:   &StatusHandlers{wallservice: svc, resets: resets},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// Helper functions shared by all resource handlers.

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// idRange is the request body of the range delete/update endpoints.
type idRange struct {
	StartID *int64 `json:"start_id"`
	EndID   *int64 `json:"end_id"`
}

func decodeIDRange(r *http.Request) (int64, int64, *errors.APIError) {
	var body idRange
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return 0, 0, errors.NewValidationError("invalid request body", err)
	}
	if body.StartID == nil || body.EndID == nil {
		return 0, 0, errors.NewValidationError("missing 'start_id' or 'end_id'", nil)
	}
	return *body.StartID, *body.EndID, nil
}

func pathInt(vars map[string]string, key string) (int, *errors.APIError) {
	value, err := strconv.Atoi(vars[key])
	if err != nil {
		return 0, errors.NewValidationError("invalid "+key+" parameter", err)
	}
	return value, nil
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithServiceError translates a service error into the right HTTP
// response, falling back to an internal error for unknown shapes.
func respondWithServiceError(w http.ResponseWriter, requestID string, err error) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError("unexpected error", err).WithRequestID(requestID))
}
