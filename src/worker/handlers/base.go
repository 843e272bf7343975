package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mfportal/src/clients/navfeed"
	"mfportal/src/config"
	"mfportal/src/database"
	"mfportal/src/repositories"
	"mfportal/src/services"
	"mfportal/src/utils"
	redis_utils "mfportal/src/utils/redis"
	"mfportal/src/worker/controllers"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Controller controllers.IController
	closers    []func()
}

// NewHandler wires the job services and starts the configured schedules.
func NewHandler(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Handler, error) {
	h := &Handler{}

	pool, err := database.SetupDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, pool.Close)

	// The API reads the catalog through the same cache, so NAV updates made
	// here are only visible there right away when Redis is enabled.
	cache := services.NewLocalSchemeCache(cfg.Databases.Redis.CacheTTL)
	if cfg.Databases.Redis.Enabled {
		redisHandler, err := redis_utils.NewRedisHandler(ctx, cfg.Databases.Redis)
		if err != nil {
			h.Close()
			return nil, err
		}
		h.closers = append(h.closers, func() { _ = redisHandler.Close() })
		cache = services.NewRedisSchemeCache(redisHandler, cfg.Databases.Redis.CacheTTL)
	}

	schemeRepo := repositories.NewSchemeRepository(pool)
	portfolioRepo := repositories.NewPortfolioRepository(pool)
	snapshotRepo := repositories.NewSnapshotRepository(pool)

	schemes := services.NewSchemeService(schemeRepo, cache)
	controller := controllers.NewController(
		services.NewNAVSyncService(navfeed.NewClient(cfg), schemeRepo, schemes),
		services.NewSnapshotService(portfolioRepo, snapshotRepo),
		logger,
	)
	if err := controller.ScheduleJobs(cfg.Worker); err != nil {
		h.Close()
		return nil, err
	}
	h.closers = append(h.closers, controller.StopJobs)
	h.Controller = controller
	return h, nil
}

func NewHandlerWithController(controller controllers.IController) *Handler {
	return &Handler{Controller: controller}
}

// Close stops the schedules and releases the connections opened by NewHandler.
func (h *Handler) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		h.closers[i]()
	}
	h.closers = nil
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var (
		svcErr  *services.Error
		httpErr *utils.HTTPError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		utils.WriteError(w, utils.NewHTTPErrorWithReason(http.StatusGatewayTimeout, "timeout", "Request timed out"))
	case errors.As(err, &svcErr) && svcErr.Kind == services.KindValidation:
		utils.WriteError(w, utils.NewHTTPErrorWithReason(http.StatusBadRequest, svcErr.Reason, svcErr.Message))
	case errors.As(err, &svcErr) && svcErr.Kind == services.KindForbidden:
		utils.WriteError(w, utils.NewHTTPErrorWithReason(http.StatusForbidden, svcErr.Reason, svcErr.Message))
	case errors.As(err, &svcErr):
		utils.WriteError(w, utils.NewHTTPErrorWithReason(http.StatusInternalServerError, svcErr.Reason, svcErr.Message))
	case errors.As(err, &httpErr):
		utils.WriteError(w, httpErr)
	default:
		utils.WriteError(w, err)
	}
}
