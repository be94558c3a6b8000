package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/infra/auth"
	red "servihub/internal/infra/redis"
)

// ===== response DTOs =====
//
// Models are never encoded directly so password hashes and verification
// tokens stay out of responses.

type accountResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	CurrentAddress string `json:"current_address,omitempty"`
	Balance        int64  `json:"balance"`
	Verified       bool   `json:"is_verified"`
	Active         bool   `json:"is_active"`
	EmailVerified  bool   `json:"is_email_verified"`
	PhoneVerified  bool   `json:"is_phone_verified"`
	CreatedAt      string `json:"created_at"`
}

func toAccountResponse(a *model.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		PhoneNumber:    a.PhoneNumber,
		CurrentAddress: a.CurrentAddress,
		Balance:        a.Balance,
		Verified:       a.Verified,
		Active:         a.Active,
		EmailVerified:  a.EmailVerified,
		PhoneVerified:  a.PhoneVerified,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

type serviceResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"is_active"`
}

func toServiceResponse(s *model.Service) serviceResponse {
	return serviceResponse{ID: s.ID, Name: s.Name, Active: s.Active}
}

type planResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Price        int64  `json:"price"`
	Active       bool   `json:"is_active"`
}

func toPlanResponse(p *model.SubscriptionPlan) planResponse {
	return planResponse{ID: p.ID, Name: p.Name, DurationDays: p.DurationDays, Price: p.Price, Active: p.Active}
}

type channelResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"is_active"`
}

func toChannelResponse(c *model.PaymentChannel) channelResponse {
	return channelResponse{ID: c.ID, Name: c.Name, Active: c.Active}
}

type paymentResponse struct {
	ID            string  `json:"id"`
	AccountID     string  `json:"account_id"`
	ChannelID     string  `json:"channel_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        int64   `json:"amount"`
	Status        string  `json:"status"`
	RejectReason  *string `json:"reject_reason,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func toPaymentResponse(p *model.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		AccountID:     p.AccountID,
		ChannelID:     p.ChannelID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Status:        string(p.Status),
		RejectReason:  p.RejectReason,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

type usageResponse struct {
	ID        string `json:"id"`
	ServiceID string `json:"service_id"`
	Cost      int64  `json:"cost"`
	UsedAt    string `json:"used_at"`
}

func toUsageResponse(u *model.ServiceUsage) usageResponse {
	return usageResponse{ID: u.ID, ServiceID: u.ServiceID, Cost: u.Cost, UsedAt: u.UsedAt.Format(time.RFC3339)}
}

type periodResponse struct {
	ID      string `json:"id"`
	PlanID  string `json:"plan_id"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
	Active  bool   `json:"is_active"`
}

func toPeriodResponse(p *model.SubscriptionPeriod) periodResponse {
	return periodResponse{
		ID:      p.ID,
		PlanID:  p.PlanID,
		StartAt: p.StartAt.Format(time.RFC3339),
		EndAt:   p.EndAt.Format(time.RFC3339),
		Active:  p.Active,
	}
}

// ===== auth endpoints =====

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Password       string `json:"password"`
	CurrentAddress string `json:"current_address"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	acct, err := s.accountUC.Register(r.Context(), req.Name, req.Email, req.PhoneNumber, req.Password, req.CurrentAddress)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message string          `json:"message"`
		User    accountResponse `json:"user"`
	}{
		Message: "Registration successful. Please verify your email.",
		User:    toAccountResponse(acct),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        accountResponse `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	if !s.allowLogin(r, req.Email) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many login attempts"})
		return
	}

	acct, err := s.accountUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tok, err := s.tokens.Mint(acct.ID, auth.RoleUser)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		User:        toAccountResponse(acct),
	})
}

func (s *Server) allowLogin(r *http.Request, email string) bool {
	if s.limiter == nil {
		return true
	}
	ok, err := s.limiter.Allow(r.Context(), red.LoginKey(email), s.loginLimit, s.loginWindow)
	if err != nil {
		// Redis being down must not lock everyone out.
		s.log.Warn().Err(err).Msg("login rate limiter unavailable")
		return true
	}
	return ok
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	acct, err := s.accountUC.VerifyEmail(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string          `json:"message"`
		User    accountResponse `json:"user"`
	}{
		Message: "Email verified successfully.",
		User:    toAccountResponse(acct),
	})
}

// ===== user endpoints =====

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAccountResponse(accountFrom(r)))
}

func (s *Server) handleUserServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.catalogUC.ListServices(r.Context(), true)
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

func (s *Server) handleAvailablePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.catalogUC.ListPlans(r.Context(), true)
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

func (s *Server) handleUserChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.catalogUC.ListChannels(r.Context(), true)
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

type useServiceRequest struct {
	ServiceID string `json:"service_id"`
}

func (s *Server) handleUseService(w http.ResponseWriter, r *http.Request) {
	var req useServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	usage, err := s.ledgerUC.Consume(r.Context(), accountFrom(r).ID, req.ServiceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUsageResponse(usage))
}

type buySubscriptionRequest struct {
	PlanID string `json:"subscription_id"`
}

func (s *Server) handleBuySubscription(w http.ResponseWriter, r *http.Request) {
	var req buySubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	period, err := s.ledgerUC.PurchaseSubscription(r.Context(), accountFrom(r).ID, req.PlanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodResponse(period))
}

type addPaymentRequest struct {
	ChannelID     string `json:"payment_channel_id"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
}

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	payment, err := s.paymentUC.Submit(r.Context(), accountFrom(r).ID, req.ChannelID, req.TransactionID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (s *Server) handleUserPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.paymentUC.ListByAccount(r.Context(), accountFrom(r).ID)
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

func (s *Server) handleUserUsages(w http.ResponseWriter, r *http.Request) {
	usages, err := s.ledgerUC.UsageHistory(r.Context(), accountFrom(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]usageResponse, 0, len(usages))
	for _, u := range usages {
		out = append(out, toUsageResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUserSubscriptions(w http.ResponseWriter, r *http.Request) {
	periods, err := s.ledgerUC.SubscriptionHistory(r.Context(), accountFrom(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]periodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, toPeriodResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}
