package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"servihub/internal/config"
	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/infra/auth"
	"servihub/internal/infra/logging"
	red "servihub/internal/infra/redis"
	"servihub/internal/usecase"
)

type ctxKey string

const (
	ctxAccount ctxKey = "web.account"
	ctxAdmin   ctxKey = "web.admin"
)

type Server struct {
	accountUC usecase.AccountUseCase
	ledgerUC  usecase.LedgerUseCase
	paymentUC usecase.PaymentUseCase
	catalogUC usecase.CatalogUseCase

	tokens *auth.TokenManager
	gate   *auth.Gate

	// limiter is nil when redis is not configured; login throttling is then off.
	limiter     *red.RateLimiter
	loginLimit  int
	loginWindow time.Duration

	httpServer *http.Server
	log        *zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	accountUC usecase.AccountUseCase,
	ledgerUC usecase.LedgerUseCase,
	paymentUC usecase.PaymentUseCase,
	catalogUC usecase.CatalogUseCase,
	tokens *auth.TokenManager,
	gate *auth.Gate,
	limiter *red.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		accountUC:   accountUC,
		ledgerUC:    ledgerUC,
		paymentUC:   paymentUC,
		catalogUC:   catalogUC,
		tokens:      tokens,
		gate:        gate,
		limiter:     limiter,
		loginLimit:  cfg.Auth.LoginLimit,
		loginWindow: cfg.Auth.LoginWindow,
		log:         logger,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.traceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/verify-email/{token}", s.handleVerifyEmail)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Get("/profile", s.requireUser(auth.Authenticated, s.handleProfile))
		r.Get("/services", s.requireUser(auth.Authenticated, s.handleUserServices))
		r.Get("/available-subscriptions", s.requireUser(auth.Authenticated, s.handleAvailablePlans))
		r.Get("/payment-channels", s.requireUser(auth.Authenticated, s.handleUserChannels))
		r.Get("/payments", s.requireUser(auth.Authenticated, s.handleUserPayments))
		r.Get("/usages", s.requireUser(auth.Authenticated, s.handleUserUsages))
		r.Get("/subscriptions", s.requireUser(auth.Authenticated, s.handleUserSubscriptions))
		r.Post("/add-payment", s.requireUser(auth.Authenticated, s.handleAddPayment))

		// spending money requires activation and a verified email
		r.Post("/use-service", s.requireUser(auth.Verified, s.handleUseService))
		r.Post("/buy-subscription", s.requireUser(auth.Verified, s.handleBuySubscription))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", s.handleAdminLogin)

		r.Get("/users", s.requireAdmin(s.handleListUsers))
		r.Patch("/user/{id}/activate", s.requireAdmin(s.handleToggleActivation))
		r.Patch("/user/{id}/verify", s.requireAdmin(s.handleVerifyUser))

		r.Get("/services", s.requireAdmin(s.handleAdminServices))
		r.Post("/service", s.requireAdmin(s.handleCreateService))
		r.Patch("/service/{id}/toggle", s.requireAdmin(s.handleToggleService))

		r.Get("/subscriptions", s.requireAdmin(s.handleAdminPlans))
		r.Post("/subscription", s.requireAdmin(s.handleCreatePlan))
		r.Patch("/subscription/{id}/toggle", s.requireAdmin(s.handleTogglePlan))

		r.Get("/payment-channels", s.requireAdmin(s.handleAdminChannels))
		r.Post("/payment-channel", s.requireAdmin(s.handleCreateChannel))
		r.Patch("/payment-channel/{id}", s.requireAdmin(s.handleUpdateChannel))
		r.Delete("/payment-channel/{id}", s.requireAdmin(s.handleDeleteChannel))

		r.Get("/payments", s.requireAdmin(s.handleAdminPayments))
		r.Post("/payment/{id}/approve", s.requireAdmin(s.handleApprovePayment))
		r.Post("/payment/{id}/reject", s.requireAdmin(s.handleRejectPayment))
	})

	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser authenticates the bearer token as a user and enforces the
// access level before calling the handler. The resolved account is stored in
// the request context.
func (s *Server) requireUser(level auth.AccessLevel, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.parseBearer(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if claims.Role != auth.RoleUser {
			writeError(w, domain.ErrForbidden)
			return
		}
		acct, err := s.gate.RequireUser(r.Context(), claims, level)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxAccount, acct)
		ctx = logging.WithAccountID(ctx, acct.ID)
		h(w, r.WithContext(ctx))
	}
}

func (s *Server) requireAdmin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.parseBearer(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if claims.Role != auth.RoleAdmin {
			writeError(w, domain.ErrForbidden)
			return
		}
		admin, err := s.gate.RequireAdmin(r.Context(), claims)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxAdmin, admin)
		ctx = logging.WithAdminID(ctx, admin.ID)
		h(w, r.WithContext(ctx))
	}
}

func (s *Server) parseBearer(r *http.Request) (*auth.Claims, error) {
	tok, err := auth.FromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	return s.tokens.Parse(tok)
}

func accountFrom(r *http.Request) *model.Account {
	acct, _ := r.Context().Value(ctxAccount).(*model.Account)
	return acct
}
