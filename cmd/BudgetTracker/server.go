package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/auth"
	"github.com/sebuszqo/BudgetTracker/internal/finance/interfaces"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Response struct {
	Message string `json:"message"`
}

type healthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router             *http.ServeMux
	authMiddleware     *auth.Middleware
	health             healthChecker
	transactionHandler *interfaces.TransactionHandler
	categoryHandler    *interfaces.CategoryHandler
	walletHandler      *interfaces.WalletHandler
	budgetHandler      *interfaces.BudgetHandler
	logger             *zap.Logger
}

func NewServer(
	authMiddleware *auth.Middleware,
	health healthChecker,
	transactionHandler *interfaces.TransactionHandler,
	categoryHandler *interfaces.CategoryHandler,
	walletHandler *interfaces.WalletHandler,
	budgetHandler *interfaces.BudgetHandler,
	logger *zap.Logger,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		authMiddleware:     authMiddleware,
		health:             health,
		transactionHandler: transactionHandler,
		categoryHandler:    categoryHandler,
		walletHandler:      walletHandler,
		budgetHandler:      budgetHandler,
		logger:             logger,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
		s.logger.Warn("readiness check failed", zap.String("error", stats["error"]))
	}
	interfaces.RespondJSON(w, status, stats)
}

func (s *Server) protect(handler http.HandlerFunc) http.Handler {
	return s.authMiddleware.JWTAccessTokenMiddleware()(handler)
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()

	// CATEGORIES
	protectedRoutes.Handle("GET /api/protected/categories", s.protect(s.categoryHandler.GetCategories))
	protectedRoutes.Handle("POST /api/protected/categories", s.protect(s.categoryHandler.AddCategory))

	// WALLETS
	protectedRoutes.Handle("GET /api/protected/wallets", s.protect(s.walletHandler.ListWallets))
	protectedRoutes.Handle("POST /api/protected/wallets", s.protect(s.walletHandler.CreateWallet))
	protectedRoutes.Handle("PATCH /api/protected/wallets/{walletID}", s.protect(s.walletHandler.UpdateWallet))
	protectedRoutes.Handle("DELETE /api/protected/wallets/{walletID}", s.protect(s.walletHandler.DeleteWallet))
	protectedRoutes.Handle("PUT /api/protected/wallets/{walletID}/collaborators", s.protect(s.walletHandler.SyncCollaborators))

	// BUDGETS
	protectedRoutes.Handle("GET /api/protected/budgets", s.protect(s.budgetHandler.ListBudgets))
	protectedRoutes.Handle("POST /api/protected/budgets", s.protect(s.budgetHandler.CreateBudget))
	protectedRoutes.Handle("PATCH /api/protected/budgets/{budgetID}", s.protect(s.budgetHandler.UpdateBudget))
	protectedRoutes.Handle("DELETE /api/protected/budgets/{budgetID}", s.protect(s.budgetHandler.DeleteBudget))

	// TRANSACTIONS
	protectedRoutes.Handle("GET /api/protected/transactions", s.protect(s.transactionHandler.ListTransactions))
	protectedRoutes.Handle("POST /api/protected/transactions", s.protect(s.transactionHandler.CreateTransaction))
	protectedRoutes.Handle("PUT /api/protected/transactions/{transactionID}", s.protect(s.transactionHandler.UpdateTransaction))
	protectedRoutes.Handle("DELETE /api/protected/transactions/{transactionID}", s.protect(s.transactionHandler.DeleteTransaction))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))
	s.router = mainRouter
}

func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// rateLimitMiddleware applies one process-wide token bucket to every request.
func rateLimitMiddleware(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			interfaces.RespondError(w, http.StatusTooManyRequests, "Too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
