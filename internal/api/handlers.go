package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fxdesk/internal/provider"
	"fxdesk/internal/service"
	"fxdesk/internal/worker"
)

// RatesQuerier serves rate tables from the stored generations.
type RatesQuerier interface {
	GetRates(ctx context.Context, base string) (*service.RatesView, error)
}

// Converter converts amounts at live rates.
type Converter interface {
	Convert(ctx context.Context, from, to string, amount, multiplier float64) (*service.Conversion, error)
	SupportedCurrencies(ctx context.Context) []service.CurrencyInfo
}

// MarketInfo serves news and rate history.
type MarketInfo interface {
	News(ctx context.Context) ([]provider.Article, error)
	History(ctx context.Context, base, target, start, end string) ([]provider.HistoryPoint, error)
}

// RefreshEnqueuer queues a rate refresh cycle.
type RefreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, force bool) (string, error)
}

// RefreshResponse represents the response for a queued refresh
type RefreshResponse struct {
	TaskID string `json:"task_id" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// HandleGetRates godoc
// @Summary Get the rate table of a base currency
// @Description Returns every target quoted in both cached generations with its 4-place rate, day-over-day change, trend indicator, country and flag. Served from the cache only, never from the upstream.
// @Tags rates
// @Produce json
// @Param base path string true "Base currency code (3 letters)" minlength(3) maxlength(3)
// @Success 200 {object} service.RatesView "Rate table"
// @Failure 400 {object} ErrorResponse "Invalid currency code format"
// @Failure 500 {object} ErrorResponse "Failed to fetch data"
// @Router /api/rates/{base} [get]
func HandleGetRates(svc RatesQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.GetRates(r.Context(), chi.URLParam(r, "base"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCurrency):
				writeError(w, http.StatusBadRequest, service.ErrInvalidCurrency.Error())
			default:
				writeError(w, http.StatusInternalServerError, "Failed to fetch data")
			}
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// HandleListCurrencies godoc
// @Summary List supported currencies
// @Description Lists the codes the live upstream quotes, with country and flag. An upstream failure yields an empty list.
// @Tags currencies
// @Produce json
// @Success 200 {array} service.CurrencyInfo "Supported currencies"
// @Router /api/currencies [get]
func HandleListCurrencies(svc Converter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.SupportedCurrencies(r.Context()))
	}
}

// HandleConvert godoc
// @Summary Convert an amount between currencies
// @Description Converts amount*multiplier at the live rate. The result is rounded to 6 decimal places.
// @Tags currencies
// @Produce json
// @Param from query string true "Source currency code" minlength(3) maxlength(3)
// @Param to query string true "Target currency code" minlength(3) maxlength(3)
// @Param amount query number true "Amount, greater than zero"
// @Param multiplier query number false "Unit multiplier" Enums(1, 1000, 1000000, 1000000000, 1000000000000)
// @Success 200 {object} service.Conversion "Conversion result"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 502 {object} ErrorResponse "Rate provider unavailable"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/convert [get]
func HandleConvert(svc Converter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, to, rawAmount := q.Get("from"), q.Get("to"), q.Get("amount")
		if from == "" || to == "" || rawAmount == "" {
			writeError(w, http.StatusBadRequest, "from, to and amount query params are required")
			return
		}
		amount, err := strconv.ParseFloat(rawAmount, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "amount must be a number")
			return
		}
		var multiplier float64
		if raw := q.Get("multiplier"); raw != "" {
			if multiplier, err = strconv.ParseFloat(raw, 64); err != nil {
				writeError(w, http.StatusBadRequest, "multiplier must be a number")
				return
			}
		}

		conv, err := svc.Convert(r.Context(), from, to, amount, multiplier)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCurrency),
				errors.Is(err, service.ErrUnsupportedCurrency),
				errors.Is(err, service.ErrInvalidAmount),
				errors.Is(err, service.ErrInvalidMultiplier):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, service.ErrUpstream):
				writeError(w, http.StatusBadGateway, "Failed to convert currency")
			default:
				writeError(w, http.StatusInternalServerError, "Internal error")
			}
			return
		}
		writeJSON(w, http.StatusOK, conv)
	}
}

// HandleNews godoc
// @Summary Latest currency news
// @Description Returns recent currency and forex headlines that carry both a title and a link.
// @Tags market
// @Produce json
// @Success 200 {array} provider.Article "Articles"
// @Failure 500 {object} ErrorResponse "API key not set or upstream failure"
// @Router /api/news [get]
func HandleNews(svc MarketInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articles, err := svc.News(r.Context())
		if err != nil {
			if errors.Is(err, service.ErrNotConfigured) {
				writeError(w, http.StatusInternalServerError, service.ErrNotConfigured.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to fetch news")
			return
		}
		writeJSON(w, http.StatusOK, articles)
	}
}

// HandleChart godoc
// @Summary Historical rates for a chart
// @Description Returns the daily rate of target against base between start and end inclusive, sorted by date.
// @Tags market
// @Produce json
// @Param base query string true "Base currency code"
// @Param target query string true "Target currency code"
// @Param start query string true "Start date" format(date)
// @Param end query string true "End date" format(date)
// @Success 200 {array} provider.HistoryPoint "Timeseries"
// @Failure 400 {object} ErrorResponse "Missing or invalid parameters"
// @Failure 500 {object} ErrorResponse "Could not fetch historical data"
// @Router /api/chart [get]
func HandleChart(svc MarketInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		points, err := svc.History(r.Context(), q.Get("base"), q.Get("target"), q.Get("start"), q.Get("end"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingParams):
				writeError(w, http.StatusBadRequest, "Missing parameters")
			case errors.Is(err, service.ErrInvalidCurrency), errors.Is(err, service.ErrInvalidDate):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, service.ErrNotConfigured):
				writeError(w, http.StatusInternalServerError, service.ErrNotConfigured.Error())
			default:
				writeError(w, http.StatusInternalServerError, "Could not fetch historical data.")
			}
			return
		}
		writeJSON(w, http.StatusOK, points)
	}
}

// HandleCurrencyMeta godoc
// @Summary Currency metadata document
// @Description Serves the externally maintained code to country and flag mapping.
// @Tags currencies
// @Produce json
// @Success 200 {object} map[string]currency.Meta "Metadata"
// @Failure 404 {string} string "Not found"
// @Router /data/currency_meta.json [get]
func HandleCurrencyMeta(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.ServeFile(w, r, path)
	}
}

// HandleRefresh godoc
// @Summary Queue a cache refresh
// @Description Queues one rate refresh cycle. With force=true the freshness check is bypassed. Only one cycle can be queued at a time.
// @Tags cache
// @Produce json
// @Param force query bool false "Bypass the freshness check"
// @Success 202 {object} RefreshResponse "Refresh queued"
// @Failure 400 {object} ErrorResponse "Invalid force flag"
// @Failure 409 {object} ErrorResponse "Refresh already queued"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/cache/refresh [post]
func HandleRefresh(enq RefreshEnqueuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var force bool
		if raw := strings.TrimSpace(r.URL.Query().Get("force")); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "force must be a boolean")
				return
			}
			force = v
		}

		taskID, err := enq.EnqueueRefresh(r.Context(), force)
		if err != nil {
			if errors.Is(err, worker.ErrRefreshQueued) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		writeJSON(w, http.StatusAccepted, RefreshResponse{TaskID: taskID})
	}
}
