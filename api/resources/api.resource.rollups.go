package resources

import (
	"net/http"

	"github.com/abahued/windwall-hub/internal/wallservice"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// RollupHandlers encapsulates the rollup-related HTTP handlers
type RollupHandlers struct {
	wallservice *wallservice.WallService
}

// @Summary All daily totals
// @Tags rollups
// @Produce json
// @Success 200 {array} models.DailyTotalView
// @Router /days [get]
func (h *RollupHandlers) ListDays(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	views, err := h.wallservice.AllDays(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

// @Summary Today's total
// @Tags rollups
// @Produce json
// @Success 200 {object} models.DailyTotalView
// @Router /days/current [get]
func (h *RollupHandlers) GetCurrentDay(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	view, err := h.wallservice.CurrentDay(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// @Summary Last 30 days
// @Description Day-number keyed totals of the last 30 days, zero-filled
// @Tags rollups
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /days/last30 [get]
func (h *RollupHandlers) GetLast30Days(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	totals, err := h.wallservice.Last30Days(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, totals)
}

// @Summary Current week
// @Tags rollups
// @Produce json
// @Success 200 {object} wallservice.WeekView
// @Router /days/week [get]
func (h *RollupHandlers) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	view, err := h.wallservice.CurrentWeek(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// @Summary Day-of-month total
// @Description Sum of daily totals across all months sharing this day number
// @Tags rollups
// @Produce json
// @Param number path int true "Day number 1-31"
// @Success 200 {object} map[string]interface{}
// @Router /days/{number} [get]
func (h *RollupHandlers) GetDayOfMonthTotal(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	dayNumber, apiErr := pathInt(mux.Vars(r), "number")
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	total, err := h.wallservice.DayOfMonthTotal(r.Context(), dayNumber)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"day": dayNumber, "total": total})
}

// @Summary All monthly totals
// @Tags rollups
// @Produce json
// @Success 200 {array} models.MonthlyTotalView
// @Router /months [get]
func (h *RollupHandlers) ListMonths(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	views, err := h.wallservice.AllMonths(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

// @Summary Month-number totals
// @Description Totals summed across all years per calendar month number
// @Tags rollups
// @Produce json
// @Success 200 {object} map[int]float64
// @Router /months/totals [get]
func (h *RollupHandlers) GetMonthNumberTotals(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	totals, err := h.wallservice.MonthNumberTotals(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, totals)
}

// @Summary This month's total
// @Tags rollups
// @Produce json
// @Success 200 {object} models.MonthlyTotalView
// @Router /months/current [get]
func (h *RollupHandlers) GetCurrentMonth(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	view, err := h.wallservice.CurrentMonth(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// @Summary All-time total
// @Tags rollups
// @Produce json
// @Success 200 {object} models.GrandTotal
// @Router /total [get]
func (h *RollupHandlers) GetGrandTotal(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	grand, err := h.wallservice.Grand(r.Context())
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, grand)
}
