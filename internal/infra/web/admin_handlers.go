package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"servihub/internal/domain"
	"servihub/internal/infra/auth"
)

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	if !s.allowLogin(r, req.Email) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many login attempts"})
		return
	}

	admin, err := s.accountUC.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tok, err := s.tokens.Mint(admin.ID, auth.RoleAdmin)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		AdminID     string `json:"admin_id"`
		Email       string `json:"email"`
	}{
		AccessToken: tok,
		TokenType:   "bearer",
		AdminID:     admin.ID,
		Email:       admin.Email,
	})
}

// ===== user management =====

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	accounts, total, err := s.accountUC.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		data = append(data, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, struct {
		Data   []accountResponse `json:"data"`
		Total  int               `json:"total"`
		Limit  int               `json:"limit"`
		Offset int               `json:"offset"`
	}{Data: data, Total: total, Limit: limit, Offset: offset})
}

func (s *Server) handleToggleActivation(w http.ResponseWriter, r *http.Request) {
	acct, err := s.accountUC.ToggleActivation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (s *Server) handleVerifyUser(w http.ResponseWriter, r *http.Request) {
	acct, err := s.accountUC.MarkVerified(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

// ===== service catalog =====

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAdminServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.catalogUC.ListServices(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]serviceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, toServiceResponse(svc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	svc, err := s.catalogUC.CreateService(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceResponse(svc))
}

func (s *Server) handleToggleService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.catalogUC.ToggleService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

// ===== subscription plans =====

type planCreateRequest struct {
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Price        int64  `json:"price"`
}

func (s *Server) handleAdminPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.catalogUC.ListPlans(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	plan, err := s.catalogUC.CreatePlan(r.Context(), req.Name, req.DurationDays, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanResponse(plan))
}

func (s *Server) handleTogglePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.catalogUC.TogglePlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// ===== payment channels =====

type channelUpdateRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"is_active"`
}

func (s *Server) handleAdminChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.catalogUC.ListChannels(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]channelResponse, 0, len(channels))
	for _, c := range channels {
		out = append(out, toChannelResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	ch, err := s.catalogUC.CreateChannel(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChannelResponse(ch))
}

func (s *Server) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	var req channelUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	ch, err := s.catalogUC.UpdateChannel(r.Context(), chi.URLParam(r, "id"), req.Name, req.Active)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChannelResponse(ch))
}

func (s *Server) handleDeleteChannel(w http.ResponseWriter, r *http.Request) {
	if err := s.catalogUC.DeleteChannel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
	}{Message: "Payment channel deleted."})
}

// ===== payments =====

func (s *Server) handleAdminPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.paymentUC.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleApprovePayment(w http.ResponseWriter, r *http.Request) {
	if err := s.paymentUC.Approve(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
	}{Message: "Payment approved and balance credited."})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleRejectPayment(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	if err := s.paymentUC.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
	}{Message: "Payment rejected."})
}
