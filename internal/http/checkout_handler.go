package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"
	"github.com/maptiva/tienda-online-mvp-sub000/internal/service"
	"github.com/maptiva/tienda-online-mvp-sub000/internal/storeprofile"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CheckoutService is the slice of the orchestrator the handler needs.
type CheckoutService interface {
	Begin(ctx context.Context, req *service.SubmissionRequest) (*service.SubmissionResult, error)
	Decide(ctx context.Context, submissionID uuid.UUID, decision service.Decision) (*service.SubmissionResult, error)
}

// CartReader freezes the session cart for checkout.
type CartReader interface {
	Snapshot(ctx context.Context, sessionID string) (d.CartSnapshot, error)
}

// StoreResolver looks up the store profile a submission runs against.
type StoreResolver interface {
	GetStore(ctx context.Context, storeID string) (*d.StoreProfile, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	carts    CartReader
	stores   StoreResolver
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutService, carts CartReader, stores StoreResolver, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		carts:    carts,
		stores:   stores,
		timeout:  timeout,
	}
}

type SubmitCheckoutRequestDTO struct {
	SessionID     string         `json:"session_id"`
	StoreID       string         `json:"store_id"`
	Customer      d.CustomerInfo `json:"customer"`
	PaymentMethod string         `json:"payment_method"`
}

type DecisionRequestDTO struct {
	Decision string `json:"decision"`
}

type SubmissionResultDTO struct {
	SubmissionID string               `json:"submission_id"`
	State        string               `json:"state"`
	FailedLines  []service.FailedLine `json:"failed_lines,omitempty"`
	RedirectURL  string               `json:"redirect_url,omitempty"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SubmitCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "session_id is required")
		return
	}
	if req.StoreID == "" {
		respondError(w, http.StatusBadRequest, "missing_store_id", "store_id is required")
		return
	}

	store, err := h.stores.GetStore(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, storeprofile.ErrStoreNotFound) {
			respondError(w, http.StatusNotFound, "store_not_found", "store not found")
			return
		}
		log.Printf("[%s] store lookup failed: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	cart, err := h.carts.Snapshot(ctx, req.SessionID)
	if err != nil {
		log.Printf("[%s] cart snapshot failed: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	result, err := h.checkout.Begin(ctx, &service.SubmissionRequest{
		SessionID: req.SessionID,
		Store:     *store,
		Cart:      cart,
		Customer:  req.Customer,
		Method:    d.ParsePaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, statusForResult(result), toResultDTO(result))
}

// POST /api/v1/checkout/{submission_id}/decision
func (h *CheckoutHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	submissionID, err := uuid.Parse(chi.URLParam(r, "submission_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_submission_id", "submission_id must be a UUID")
		return
	}

	var req DecisionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.checkout.Decide(ctx, submissionID, service.Decision(req.Decision))
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, statusForResult(result), toResultDTO(result))
}

// statusForResult: a suspended submission answers 202, everything else 200.
func statusForResult(result *service.SubmissionResult) int {
	switch result.State {
	case d.StateAwaitingStockChoice, d.StateAwaitingRetryChoice:
		return http.StatusAccepted
	default:
		return http.StatusOK
	}
}

func toResultDTO(result *service.SubmissionResult) SubmissionResultDTO {
	return SubmissionResultDTO{
		SubmissionID: result.SubmissionID.String(),
		State:        result.State.String(),
		FailedLines:  result.FailedLines,
		RedirectURL:  result.RedirectURL,
	}
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", err.Error())
	case errors.Is(err, service.ErrIncompleteCustomerInfo):
		respondError(w, http.StatusUnprocessableEntity, "incomplete_customer_info", err.Error())
	case errors.Is(err, service.ErrChannelNotConfigured):
		respondError(w, http.StatusUnprocessableEntity, "channel_not_configured", err.Error())
	case errors.Is(err, service.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", err.Error())
	case errors.Is(err, service.ErrInvalidDecision):
		respondError(w, http.StatusConflict, "invalid_decision", err.Error())
	case errors.Is(err, service.ErrSubmissionNotFound):
		respondError(w, http.StatusNotFound, "submission_not_found", err.Error())
	case errors.Is(err, service.ErrStockReservationUnavailable):
		respondError(w, http.StatusServiceUnavailable, "reservation_unavailable", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
