package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/internal/usecase"
	xhttp "SignalSweep/pkg/http"
	"SignalSweep/pkg/http/middleware"
	xlogger "SignalSweep/pkg/logger"
)

// Service is what the HTTP layer needs from the run orchestration.
type Service interface {
	Signal(ctx context.Context, sampleHours int, strategy models.StrategyConfig) (*models.Analysis, error)
	Backtest(ctx context.Context, p usecase.BacktestParams) (*usecase.BacktestReport, error)
	Sweep(ctx context.Context, p usecase.SweepParams, progress domsvc.Observer) (*usecase.SweepReport, error)
}

// Handler serves the signal, backtest and sweep endpoints.
type Handler struct {
	logger   *xlogger.Logger
	svc      Service
	strategy models.StrategyConfig
	upgrader websocket.Upgrader
	limiter  *middleware.Limiter
	probes   []readinessProbe
}

type readinessProbe struct {
	name  string
	check func(context.Context) error
}

// HandlerOption configures Handler.
type HandlerOption func(*Handler)

// WithSweepLimiter rate limits the backtest and sweep endpoints per client.
func WithSweepLimiter(l *middleware.Limiter) HandlerOption {
	return func(h *Handler) {
		h.limiter = l
	}
}

// WithReadinessProbe adds a backend check to GET /readyz.
func WithReadinessProbe(name string, check func(context.Context) error) HandlerOption {
	return func(h *Handler) {
		h.probes = append(h.probes, readinessProbe{name: name, check: check})
	}
}

// NewHandler creates a Handler. strategy is used whenever a request does not
// enable any rule of its own.
func NewHandler(logger *xlogger.Logger, svc Service, strategy models.StrategyConfig, opts ...HandlerOption) *Handler {
	h := &Handler{
		logger:   logger,
		svc:      svc,
		strategy: strategy,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  4096,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)

	var heavy []echo.MiddlewareFunc
	if h.limiter != nil {
		heavy = append(heavy, middleware.RateLimit(h.limiter))
	}
	g.POST("/backtest", h.Backtest, heavy...)
	g.POST("/sweep", h.Sweep, heavy...)
	g.GET("/sweep/ws", h.SweepStream, heavy...)
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/readyz", h.Ready)
}

// Ready runs every readiness probe and reports the failing ones.
func (h *Handler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for _, p := range h.probes {
		if err := p.check(ctx); err != nil {
			failed[p.name] = err.Error()
		}
	}
	if len(failed) > 0 {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, failed)
	}
	return xhttp.SuccessResponse(c, map[string]int{"probes": len(h.probes)})
}

func (h *Handler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	strategy := h.strategy
	strategy.MA = models.MAConfig{ShortWindow: req.Short, LongWindow: req.Long}

	res, err := h.svc.Signal(c.Request().Context(), req.SampleHours, strategy)
	if err != nil {
		h.logger.Error("signal usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) Backtest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	strategy := req.Strategy
	if !strategy.HasRules() {
		strategy = h.strategy
	}
	if strategy.MA.ShortWindow >= strategy.MA.LongWindow {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("strategy.ma: short window must be below long window"))
	}

	rep, err := h.svc.Backtest(c.Request().Context(), usecase.BacktestParams{
		SampleHours:     req.SampleHours,
		Settings:        req.Settings(),
		SizingFraction:  req.SizingFraction,
		Strategy:        strategy,
		FloorPercentile: req.FloorPercentile,
	})
	if err != nil {
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	if !req.IncludeCurve {
		rep.Result.EquityCurve = nil
	}
	return xhttp.SuccessResponse(c, rep)
}

func (h *Handler) Sweep(c echo.Context) error {
	req := &models.SweepRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := req.Space.Check(); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}

	rep, err := h.svc.Sweep(c.Request().Context(), sweepParams(req), nil)
	if err != nil {
		h.logger.Error("sweep usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	stripCurve(rep)
	return xhttp.SuccessResponse(c, rep)
}

func sweepParams(req *models.SweepRequest) usecase.SweepParams {
	return usecase.SweepParams{
		SampleHours: req.SampleHours,
		Settings:    req.Settings(),
		Workers:     req.Workers,
		Space:       req.Space,
	}
}

func stripCurve(rep *usecase.SweepReport) {
	if rep.Best != nil && rep.Best.Result != nil {
		rep.Best.Result.EquityCurve = nil
	}
}

// errorMapper maps use case failures onto HTTP statuses.
var errorMapper = (&xhttp.ErrorMapper{}).
	Map(models.ErrInsufficientData, http.StatusUnprocessableEntity).
	Map(usecase.ErrNoValidResult, http.StatusUnprocessableEntity).
	Map(usecase.ErrSweepInProgress, http.StatusConflict)

func appError(err error) *xhttp.AppError {
	return errorMapper.Resolve(err)
}
