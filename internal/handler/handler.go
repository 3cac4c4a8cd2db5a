package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/refiline/refi-service/internal/finance"
	"github.com/refiline/refi-service/internal/models"
	"github.com/refiline/refi-service/internal/service"
	"github.com/refiline/refi-service/internal/utils"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps engine validation failures to 400 and everything else
// to 500; "not found" and ownership errors come back as opaque messages from
// the service layer and are treated as 404 by the callers that expect them.
func statusForError(err error) int {
	if errors.Is(err, finance.ErrInvalidLoanParameters) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateMortgage handles mortgage record creation
func (h *Handler) CreateMortgage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string  `json:"name"`
		Principal       float64 `json:"principal"`
		AnnualRate      float64 `json:"annual_rate"`
		TermMonths      int     `json:"term_months"`
		OriginationDate string  `json:"origination_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	originationDate, err := time.Parse("2006-01-02", req.OriginationDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "origination_date must be YYYY-MM-DD")
		return
	}

	terms := models.LoanTerms{
		Principal:  req.Principal,
		AnnualRate: req.AnnualRate,
		TermMonths: req.TermMonths,
	}
	mortgage, err := h.svc.CreateMortgage(r.Context(), req.Name, terms, originationDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, mortgage)
}

// ListMortgages returns the caller's mortgages
func (h *Handler) ListMortgages(w http.ResponseWriter, r *http.Request) {
	mortgages, err := h.svc.ListMortgages(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if mortgages == nil {
		mortgages = []*models.Mortgage{}
	}
	respondJSON(w, http.StatusOK, mortgages)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// GetMortgage returns one mortgage
func (h *Handler) GetMortgage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid mortgage id")
		return
	}
	mortgage, err := h.svc.GetMortgage(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, mortgage)
}

// DeleteMortgage removes one mortgage
func (h *Handler) DeleteMortgage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid mortgage id")
		return
	}
	if err := h.svc.DeleteMortgage(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Schedule returns the amortization table for a mortgage
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid mortgage id")
		return
	}
	points, err := h.svc.AmortizationSchedule(r.Context(), id)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	for i := range points {
		points[i].RemainingPrincipal = utils.RoundCents(points[i].RemainingPrincipal)
		points[i].InterestPaidToDate = utils.RoundCents(points[i].InterestPaidToDate)
	}
	respondJSON(w, http.StatusOK, points)
}

// Recoup evaluates a refinance proposal against a mortgage
func (h *Handler) Recoup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid mortgage id")
		return
	}
	var proposal models.RefinanceProposal
	if err := json.NewDecoder(r.Body).Decode(&proposal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.AnalyzeRecoup(r.Context(), id, proposal)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	result.LifetimeInterestDelta = utils.RoundCents(result.LifetimeInterestDelta)
	respondJSON(w, http.StatusOK, result)
}

// Frontier returns the efficient frontier curve for a mortgage
func (h *Handler) Frontier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid mortgage id")
		return
	}
	newTermMonths, err := strconv.Atoi(r.URL.Query().Get("new_term_months"))
	if err != nil || newTermMonths <= 0 {
		respondError(w, http.StatusBadRequest, "new_term_months must be a positive integer")
		return
	}
	closingCost, err := strconv.ParseFloat(r.URL.Query().Get("closing_cost"), 64)
	if err != nil || closingCost < 0 {
		respondError(w, http.StatusBadRequest, "closing_cost must be a non-negative number")
		return
	}

	points, err := h.svc.Frontier(r.Context(), id, newTermMonths, closingCost)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, points)
}

// CreateAlert subscribes the caller to rate alerts for a mortgage
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MortgageID         int64   `json:"mortgage_id"`
		NewTermMonths      int     `json:"new_term_months"`
		ClosingCost        float64 `json:"closing_cost"`
		MaxBreakEvenMonths int     `json:"max_break_even_months"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.svc.CreateAlertSubscription(r.Context(), req.MortgageID, req.NewTermMonths, req.ClosingCost, req.MaxBreakEvenMonths)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

// ListAlerts returns the caller's alert subscriptions
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListAlertSubscriptions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if subs == nil {
		subs = []*models.AlertSubscription{}
	}
	respondJSON(w, http.StatusOK, subs)
}

// DeleteAlert removes one alert subscription
func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}
	if err := h.svc.DeleteAlertSubscription(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
