package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/prasad123-hub/bill-splitter/internal/models"
)

type expenseRequest struct {
	ID       string   `json:"id,omitempty"`
	GroupID  string   `json:"groupId"`
	Name     string   `json:"expenseName"`
	Amount   float64  `json:"expenseAmount"`
	Category string   `json:"expenseCategory"`
	Payer    string   `json:"expenseOwner"`
	Members  []string `json:"expenseMembers"`
}

type expenseResponse struct {
	ID        string   `json:"expenseId"`
	GroupID   string   `json:"groupId"`
	Name      string   `json:"expenseName"`
	Amount    float64  `json:"expenseAmount"`
	Category  string   `json:"expenseCategory,omitempty"`
	Payer     string   `json:"expenseOwner"`
	Members   []string `json:"expenseMembers"`
	PerPerson float64  `json:"expensePerMember"`
	CreatedAt int64    `json:"expenseDate"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		GroupID:   e.GroupID,
		Name:      e.Name,
		Amount:    e.Amount,
		Category:  e.Category,
		Payer:     e.PayerEmail,
		Members:   e.Members,
		PerPerson: e.PerPersonShare(),
		CreatedAt: e.CreatedAt,
	}
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "expense name is required")
		return
	}

	if _, ok := s.requireMembership(w, r, req.GroupID); !ok {
		return
	}

	expense := &models.Expense{
		ID:         uuid.New().String(),
		GroupID:    req.GroupID,
		Name:       req.Name,
		Amount:     req.Amount,
		Category:   req.Category,
		PayerEmail: req.Payer,
		Members:    req.Members,
		CreatedAt:  time.Now().Unix(),
	}

	balances, err := s.expenses.AddExpense(r.Context(), expense)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "Success",
		"message":   "Expense added successfully",
		"expenseId": expense.ID,
		"split":     balances,
	})
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "expense name is required")
		return
	}

	old, err := s.expenses.GetExpense(r.Context(), req.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, ok := s.requireMembership(w, r, old.GroupID); !ok {
		return
	}

	expense := &models.Expense{
		ID:         req.ID,
		Name:       req.Name,
		Amount:     req.Amount,
		Category:   req.Category,
		PayerEmail: req.Payer,
		Members:    req.Members,
	}

	balances, err := s.expenses.EditExpense(r.Context(), expense)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "Success",
		"message": "Expense updated successfully",
		"split":   balances,
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExpenseID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := s.expenses.GetExpense(r.Context(), req.ExpenseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, ok := s.requireMembership(w, r, expense.GroupID); !ok {
		return
	}

	balances, err := s.expenses.DeleteExpense(r.Context(), req.ExpenseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "Success",
		"message": "Expense deleted successfully",
		"split":   balances,
	})
}

func (s *Server) handleViewExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExpenseID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := s.expenses.GetExpense(r.Context(), req.ExpenseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, ok := s.requireMembership(w, r, expense.GroupID); !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "Success",
		"expense": toExpenseResponse(expense),
	})
}

func (s *Server) handleGroupExpenses(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := s.requireMembership(w, r, req.GroupID); !ok {
		return
	}

	expenses, err := s.expenses.GroupExpenses(r.Context(), req.GroupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	total := 0.0
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
		total += e.Amount
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "Success",
		"expenses": out,
		"total":    total,
	})
}

func (s *Server) handleUserExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.UserExpenses(r.Context(), requesterEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	total := 0.0
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
		total += e.PerPersonShare()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "Success",
		"expenses": out,
		"total":    total,
	})
}

func (s *Server) handleRecentExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.RecentUserExpenses(r.Context(), requesterEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "Success",
		"expenses": out,
	})
}

func (s *Server) handleGroupCategoryExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := s.requireMembership(w, r, req.GroupID); !ok {
		return
	}

	totals, err := s.expenses.GroupCategorySummary(r.Context(), req.GroupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"data":   totals,
	})
}

func (s *Server) handleGroupMonthlyExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := s.requireMembership(w, r, req.GroupID); !ok {
		return
	}

	totals, err := s.expenses.GroupMonthlySummary(r.Context(), req.GroupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"data":   totals,
	})
}

func (s *Server) handleGroupDailyExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := s.requireMembership(w, r, req.GroupID); !ok {
		return
	}

	totals, err := s.expenses.GroupDailySummary(r.Context(), req.GroupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"data":   totals,
	})
}

func (s *Server) handleUserCategoryExpense(w http.ResponseWriter, r *http.Request) {
	totals, err := s.expenses.UserCategorySummary(r.Context(), requesterEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"data":   totals,
	})
}

func (s *Server) handleUserMonthlyExpense(w http.ResponseWriter, r *http.Request) {
	totals, err := s.expenses.UserMonthlySummary(r.Context(), requesterEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"data":   totals,
	})
}

func (s *Server) handleUserDailyExpense(w http.ResponseWriter, r *http.Request) {
	totals, err := s.expenses.UserDailySummary(r.Context(), requesterEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"data":   totals,
	})
}
