package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"mfportal/src/api/controllers"
	"mfportal/src/config"
	"mfportal/src/database"
	"mfportal/src/repositories"
	"mfportal/src/services"
	"mfportal/src/utils"
	redis_utils "mfportal/src/utils/redis"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Controller controllers.IController
	closers    []func()
}

// NewHandler connects to Postgres (and Redis when enabled) and wires the
// repositories and services behind the API controller.
func NewHandler(ctx context.Context, cfg *config.Config) (*Handler, error) {
	h := &Handler{}

	pool, err := database.SetupDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, pool.Close)

	gormDB, err := database.SetupGorm(cfg)
	if err != nil {
		h.Close()
		return nil, err
	}

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

	store := repositories.NewLedgerStore(pool)
	userRepo := repositories.NewUserRepository(gormDB)
	accountRepo := repositories.NewBankAccountRepository(pool)
	schemeRepo := repositories.NewSchemeRepository(pool)
	portfolioRepo := repositories.NewPortfolioRepository(pool)
	transactionRepo := repositories.NewTransactionRepository(pool)
	snapshotRepo := repositories.NewSnapshotRepository(pool)

	h.Controller = controllers.NewController(controllers.Services{
		Users:        services.NewUserService(userRepo),
		BankAccounts: services.NewBankAccountService(accountRepo, store),
		Schemes:      services.NewSchemeService(schemeRepo, cache),
		Purchases:    services.NewPurchaseService(store, cfg.MinimumPurchaseAmount()),
		Valuation:    services.NewValuationService(portfolioRepo, userRepo),
		Transactions: services.NewTransactionService(transactionRepo),
		Snapshots:    services.NewSnapshotService(portfolioRepo, snapshotRepo),
	})
	return h, nil
}

func NewHandlerWithController(controller controllers.IController) *Handler {
	return &Handler{Controller: controller}
}

// Close releases the connections opened by NewHandler.
func (h *Handler) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		h.closers[i]()
	}
	h.closers = nil
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
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

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindInsufficientFunds, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// HandleErrors writes err as {"error": message, "code": reason}. Causes of
// internal errors are never sent to the client.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var (
		svcErr  *services.Error
		httpErr *utils.HTTPError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		utils.WriteError(w, utils.NewHTTPErrorWithReason(http.StatusGatewayTimeout, "timeout", "Request timed out"))
	case errors.As(err, &svcErr):
		utils.WriteError(w, utils.NewHTTPErrorWithReason(statusForKind(svcErr.Kind), svcErr.Reason, svcErr.Message))
	case errors.As(err, &httpErr):
		utils.WriteError(w, httpErr)
	default:
		utils.WriteError(w, err)
	}
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return services.ValidationError(services.ReasonInvalidRequest, fmt.Sprintf("Malformed request body: %v", err))
	}
	return nil
}

// idParam parses the {id} URL parameter. Ids that cannot exist are reported
// as not found.
func idParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NotFound("Not found.")
	}
	return uint(id), nil
}
