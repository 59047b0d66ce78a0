// Package http exposes the JSON API of the bill splitter.
package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prasad123-hub/bill-splitter/internal/auth"
	"github.com/prasad123-hub/bill-splitter/internal/service"
)

// Server bundles the services behind the HTTP API.
type Server struct {
	auth     *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
	jwt      *auth.JWTManager
}

// New creates a Server.
func New(authSvc *service.AuthService, groups *service.GroupService, expenses *service.ExpenseService, jwt *auth.JWTManager) *Server {
	return &Server{
		auth:     authSvc,
		groups:   groups,
		expenses: expenses,
		jwt:      jwt,
	}
}

// Handler builds the full route table with logging and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler {
		return requireAuth(s.jwt, h)
	}

	// Users
	mux.HandleFunc("POST /api/users/v1/register", s.handleRegister)
	mux.HandleFunc("POST /api/users/v1/login", s.handleLogin)
	mux.Handle("POST /api/users/v1/profile", authed(s.handleProfile))
	mux.Handle("PUT /api/users/v1/edit", authed(s.handleEditUser))
	mux.Handle("PUT /api/users/v1/changepassword", authed(s.handleChangePassword))
	mux.Handle("DELETE /api/users/v1/delete", authed(s.handleDeleteUser))
	mux.Handle("GET /api/users/v1/emaillist", authed(s.handleEmailList))

	// Groups
	mux.Handle("POST /api/groups/v1/create", authed(s.handleCreateGroup))
	mux.Handle("POST /api/groups/v1/view", authed(s.handleViewGroup))
	mux.Handle("POST /api/groups/v1/groups", authed(s.handleUserGroups))
	mux.Handle("PUT /api/groups/v1/update", authed(s.handleUpdateGroup))
	mux.Handle("DELETE /api/groups/v1/delete", authed(s.handleDeleteGroup))
	mux.Handle("POST /api/groups/v1/makesettlement", authed(s.handleMakeSettlement))
	mux.Handle("POST /api/groups/v1/settlements", authed(s.handleGroupSettlements))
	mux.Handle("POST /api/groups/v1/balancesheet", authed(s.handleBalanceSheet))

	// Expenses
	mux.Handle("POST /api/expenses/v1/add", authed(s.handleAddExpense))
	mux.Handle("PUT /api/expenses/v1/edit", authed(s.handleEditExpense))
	mux.Handle("DELETE /api/expenses/v1/delete", authed(s.handleDeleteExpense))
	mux.Handle("POST /api/expenses/v1/view", authed(s.handleViewExpense))
	mux.Handle("POST /api/expenses/v1/group", authed(s.handleGroupExpenses))
	mux.Handle("POST /api/expenses/v1/user", authed(s.handleUserExpenses))
	mux.Handle("POST /api/expenses/v1/recent", authed(s.handleRecentExpenses))
	mux.Handle("POST /api/expenses/v1/group/categoryExp", authed(s.handleGroupCategoryExpense))
	mux.Handle("POST /api/expenses/v1/group/monthlyExp", authed(s.handleGroupMonthlyExpense))
	mux.Handle("POST /api/expenses/v1/group/dailyExp", authed(s.handleGroupDailyExpense))
	mux.Handle("POST /api/expenses/v1/user/categoryExp", authed(s.handleUserCategoryExpense))
	mux.Handle("POST /api/expenses/v1/user/monthlyExp", authed(s.handleUserMonthlyExpense))
	mux.Handle("POST /api/expenses/v1/user/dailyExp", authed(s.handleUserDailyExpense))

	// Operational endpoints
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Everything else is an invalid route.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "invalid path")
	})

	return logRequests(withCORS(mux))
}
