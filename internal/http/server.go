// Package http exposes the JSON API: category, expense and budget CRUD,
// the budget usage report, the spend summary and the mock OCR flow.
package http

import (
	"context"
	"net/http"
	"sync"

	"expendinator/internal/middleware/ratelimit"
	"expendinator/internal/middleware/trace"
	"expendinator/internal/services"
)

type Server struct {
	http.Server

	auth       Authenticator
	categories *services.CategoryService
	expenses   *services.ExpenseService
	budgets    *services.BudgetService
	usage      *services.UsageService
	ocr        *services.OcrService

	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// Deps bundles everything the server needs.
type Deps struct {
	Auth       Authenticator
	Categories *services.CategoryService
	Expenses   *services.ExpenseService
	Budgets    *services.BudgetService
	Usage      *services.UsageService
	Ocr        *services.OcrService

	RequestsPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		auth:       deps.Auth,
		categories: deps.Categories,
		expenses:   deps.Expenses,
		budgets:    deps.Budgets,
		usage:      deps.Usage,
		ocr:        deps.Ocr,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.RequestsPerMinute,
		}),
	}

	mux.HandleFunc("GET /ping", handlePing)

	api := http.NewServeMux()
	api.HandleFunc("POST /categories", s.handleCreateCategory)
	api.HandleFunc("GET /categories", s.handleListCategories)
	api.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)

	api.HandleFunc("POST /expenses", s.handleCreateExpense)
	api.HandleFunc("GET /expenses", s.handleListExpenses)
	api.HandleFunc("GET /expenses/summary", s.handleExpenseSummary)
	api.HandleFunc("PUT /expenses/{id}", s.handleUpdateExpense)
	api.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)

	api.HandleFunc("POST /budgets", s.handleCreateBudget)
	api.HandleFunc("GET /budgets", s.handleListBudgets)
	api.HandleFunc("GET /budgets/usage", s.handleBudgetUsage)
	api.HandleFunc("PUT /budgets/{id}", s.handleUpdateBudget)
	api.HandleFunc("DELETE /budgets/{id}", s.handleDeleteBudget)

	api.HandleFunc("GET /ocr/mock", s.handleOcrMock)
	api.HandleFunc("POST /ocr/confirm", s.handleOcrConfirm)

	mux.Handle("/", s.withAuth(api))

	tracer := trace.NewMiddleware(extractClientIP)
	limited := s.rateLimiter.Middleware(extractClientIP, nil)
	s.Handler = tracer.Middleware(limited(mux))

	return s
}

// Shutdown stops the HTTP server and the rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, "pong")
}
