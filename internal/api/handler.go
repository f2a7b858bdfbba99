package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stocklens/internal/domain/dto"
	"stocklens/internal/series"
	"stocklens/internal/service"
)

const dateLayout = "2006-01-02"

// Handler provides the HTTP handlers for the dashboard endpoints.
//
// Responsibilities:
//   - Validate incoming query parameters
//   - Call the dashboard service
//   - Translate results and sentinel errors into response DTOs and status codes
type Handler struct {
	svc service.DashboardService
}

// NewHandler constructs a Handler with its service dependency injected.
func NewHandler(svc service.DashboardService) *Handler {
	return &Handler{svc: svc}
}

// GetSymbols handles GET /api/v1/symbols requests.
//
// An empty catalog is a valid state and returns 200 with an empty list, not
// an error.
//
// GetSymbols godoc
// @Summary      List selectable symbols
// @Description  Returns the normalized, deduplicated, sorted symbol catalog
// @Tags         symbols
// @Produce      json
// @Success      200  {object}  dto.SymbolsResponse  "Success"
// @Failure      500  {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/symbols [get]
func (h *Handler) GetSymbols(c *gin.Context) {
	symbols, err := h.svc.Symbols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list symbols", err))
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	c.JSON(http.StatusOK, dto.SymbolsResponse{Symbols: symbols})
}

// GetRange handles GET /api/v1/range requests.
//
// Query Parameters:
//   - symbol (string, required): stock symbol (e.g., "AAPL"); matching is
//     case- and whitespace-insensitive.
//
// GetRange godoc
// @Summary      Get selectable date range for a symbol
// @Description  Returns the min/max dates across actuals and forecast for the symbol
// @Tags         range
// @Produce      json
// @Param        symbol  query     string  true  "Stock symbol" example(AAPL)
// @Success      200     {object}  dto.RangeResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/range [get]
func (h *Handler) GetRange(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("symbol is required", nil))
		return
	}

	bounds, err := h.svc.Bounds(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, series.ErrNoData) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("no data found for symbol", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to derive range", err))
		return
	}

	c.JSON(http.StatusOK, dto.RangeResponse{
		Symbol: symbol,
		RangeWindow: dto.RangeWindow{
			Start: bounds.Start.Format(dateLayout),
			End:   bounds.End.Format(dateLayout),
		},
	})
}

// GetDashboard handles GET /api/v1/dashboard requests.
//
// Query Parameters:
//   - symbol (string, required): stock symbol.
//   - start  (string, optional): window start in YYYY-MM-DD; defaults to the
//     earliest available date.
//   - end    (string, optional): window end in YYYY-MM-DD; defaults to the
//     latest available date.
//
// A requested window outside the available data yields empty placeholder
// panels, not an error. Only a symbol with no rows at all returns 404.
//
// GetDashboard godoc
// @Summary      Get dashboard charts for a symbol
// @Description  Returns overlay, actuals, and forecast chart specs for the symbol over an optional date window
// @Tags         dashboard
// @Produce      json
// @Param        symbol  query     string  true   "Stock symbol" example(AAPL)
// @Param        start   query     string  false  "Window start in YYYY-MM-DD" example(2024-01-01)
// @Param        end     query     string  false  "Window end in YYYY-MM-DD" example(2024-06-30)
// @Success      200     {object}  dto.DashboardResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse      "Not Found"
// @Failure      500     {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("symbol is required", nil))
		return
	}

	var start, end *time.Time
	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid start format, expected YYYY-MM-DD", err))
			return
		}
		start = &parsed
	}
	if s := c.Query("end"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid end format, expected YYYY-MM-DD", err))
			return
		}
		end = &parsed
	}
	if start != nil && end != nil && start.After(*end) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("start must not be after end", nil))
		return
	}

	d, err := h.svc.Dashboard(c.Request.Context(), symbol, start, end)
	if err != nil {
		if errors.Is(err, series.ErrNoData) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("no data found for symbol", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to build dashboard", err))
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		Symbol: d.Symbol,
		Bounds: dto.RangeWindow{
			Start: d.Bounds.Start.Format(dateLayout),
			End:   d.Bounds.End.Format(dateLayout),
		},
		Range: dto.RangeWindow{
			Start: d.Applied.Start.Format(dateLayout),
			End:   d.Applied.End.Format(dateLayout),
		},
		Overlay:  d.Overlay,
		Actuals:  d.Actuals,
		Forecast: d.Forecast,
		Debug:    d.Debug,
	})
}
