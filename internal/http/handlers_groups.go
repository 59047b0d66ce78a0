package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/prasad123-hub/bill-splitter/internal/models"
)

type groupRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"groupName"`
	Description string   `json:"groupDescription"`
	Currency    string   `json:"groupCurrency"`
	Category    string   `json:"groupCategory"`
	Members     []string `json:"groupMembers"`
}

type groupResponse struct {
	ID          string             `json:"groupId"`
	Name        string             `json:"groupName"`
	Description string             `json:"groupDescription,omitempty"`
	Currency    string             `json:"groupCurrency"`
	Category    string             `json:"groupCategory,omitempty"`
	Owner       string             `json:"groupOwner"`
	Members     []string           `json:"groupMembers"`
	Total       float64            `json:"groupTotal"`
	Split       map[string]float64 `json:"split"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Currency:    g.Currency,
		Category:    g.Category,
		Owner:       g.OwnerEmail,
		Members:     g.Members,
		Total:       g.Total,
		Split:       g.Balances,
	}
}

// requireMembership loads a group and checks the requester belongs to it.
func (s *Server) requireMembership(w http.ResponseWriter, r *http.Request, groupID string) (*models.Group, bool) {
	group, err := s.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	if _, ok := group.Balances[requesterEmail(r.Context())]; !ok {
		writeError(w, http.StatusForbidden, "you are not a member of this group")
		return nil, false
	}
	return group, true
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group := &models.Group{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
		Category:    req.Category,
		OwnerEmail:  requesterEmail(r.Context()),
		Members:     req.Members,
		CreatedAt:   time.Now().Unix(),
	}

	if err := s.groups.CreateGroup(r.Context(), group); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "Success",
		"message": "Group created successfully",
		"groupId": group.ID,
	})
}

func (s *Server) handleViewGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, ok := s.requireMembership(w, r, req.GroupID)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"group":  toGroupResponse(group),
	})
}

func (s *Server) handleUserGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.UserGroups(r.Context(), requesterEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"groups": out,
	})
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, ok := s.requireMembership(w, r, req.ID)
	if !ok {
		return
	}

	group.Name = req.Name
	group.Description = req.Description
	group.Currency = req.Currency
	group.Category = req.Category
	group.Members = req.Members

	if err := s.groups.UpdateGroup(r.Context(), group); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Success",
		"message": "Group updated successfully",
	})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
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

	if err := s.groups.DeleteGroup(r.Context(), req.GroupID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Success",
		"message": "Group deleted successfully",
	})
}

func (s *Server) handleMakeSettlement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      string  `json:"id,omitempty"`
		GroupID string  `json:"groupId"`
		From    string  `json:"settleFrom"`
		To      string  `json:"settleTo"`
		Amount  float64 `json:"settleAmount"`
		Note    string  `json:"note,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := s.requireMembership(w, r, req.GroupID); !ok {
		return
	}

	settlement := &models.Settlement{
		ID:        req.ID,
		GroupID:   req.GroupID,
		FromEmail: req.From,
		ToEmail:   req.To,
		Amount:    req.Amount,
		Note:      req.Note,
		CreatedAt: time.Now().Unix(),
	}

	balances, err := s.groups.MakeSettlement(r.Context(), settlement)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "Success",
		"message":      "Settlement recorded successfully",
		"settlementId": settlement.ID,
		"split":        balances,
	})
}

func (s *Server) handleGroupSettlements(w http.ResponseWriter, r *http.Request) {
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

	settlements, err := s.groups.GroupSettlements(r.Context(), req.GroupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	type settlementResponse struct {
		ID        string  `json:"settlementId"`
		GroupID   string  `json:"groupId"`
		From      string  `json:"settleFrom"`
		To        string  `json:"settleTo"`
		Amount    float64 `json:"settleAmount"`
		Note      string  `json:"note,omitempty"`
		CreatedAt int64   `json:"settleDate"`
	}
	out := make([]settlementResponse, 0, len(settlements))
	for _, st := range settlements {
		out = append(out, settlementResponse{
			ID:        st.ID,
			GroupID:   st.GroupID,
			From:      st.FromEmail,
			To:        st.ToEmail,
			Amount:    st.Amount,
			Note:      st.Note,
			CreatedAt: st.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "Success",
		"settlements": out,
	})
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
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

	transfers, err := s.groups.BalanceSheet(r.Context(), req.GroupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"data":   transfers,
	})
}
