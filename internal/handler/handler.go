package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/Dan9191/bank-account/internal/models"
	"github.com/Dan9191/bank-account/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type amountRequest struct {
	Amount *float64 `json:"amount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Register mounts all routes on r. auth guards the balance-mutating routes.
func (h *Handler) Register(r *mux.Router, auth mux.MiddlewareFunc) {
	r.HandleFunc("/balance", h.Balance).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/deposit", h.Deposit).Methods(http.MethodPost)
	protected.HandleFunc("/withdraw", h.Withdraw).Methods(http.MethodPost)

	loans := r.PathPrefix("/loans").Subrouter()
	loans.HandleFunc("/payment", h.Payment).Methods(http.MethodGet)
	loans.HandleFunc("/pending", h.Pending).Methods(http.MethodGet)
	loans.HandleFunc("/schedule", h.Schedule).Methods(http.MethodGet)
	loans.HandleFunc("/quote", h.Quote).Methods(http.MethodGet)

	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)
}

// Balance handles balance lookup
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]float64{"balance": h.svc.Balance()})
}

// Deposit handles a deposit
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	amount, err := decodeAmount(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	balance, err := h.svc.Deposit(amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

// Withdraw handles a withdrawal. A declined withdrawal is not an error.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	amount, err := decodeAmount(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ok, balance, err := h.svc.Withdraw(amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": ok, "balance": balance})
}

// Payment handles the periodic payment calculation
func (h *Handler) Payment(w http.ResponseWriter, r *http.Request) {
	q := query{values: r.URL.Query()}
	amount, rate, payments := q.floatParam("amount"), q.floatParam("rate"), q.intParam("payments")
	if q.err != nil {
		h.writeError(w, q.err)
		return
	}
	p, err := h.svc.Payment(amount, rate, payments)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"payment": p})
}

// Pending handles the outstanding balance calculation
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	q := query{values: r.URL.Query()}
	amount, rate, payments, month := q.floatParam("amount"), q.floatParam("rate"), q.intParam("payments"), q.intParam("month")
	if q.err != nil {
		h.writeError(w, q.err)
		return
	}
	rem, err := h.svc.Pending(amount, rate, payments, month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"pending": rem})
}

// Schedule handles the amortization table
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	q := query{values: r.URL.Query()}
	amount, rate, payments := q.floatParam("amount"), q.floatParam("rate"), q.intParam("payments")
	if q.err != nil {
		h.writeError(w, q.err)
		return
	}
	entries, err := h.svc.Schedule(amount, rate, payments)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// Quote handles a loan quote at the current key rate
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	q := query{values: r.URL.Query()}
	amount, payments := q.floatParam("amount"), q.intParam("payments")
	if q.err != nil {
		h.writeError(w, q.err)
		return
	}
	quote, err := h.svc.Quote(amount, payments)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

// KeyRate returns the cached key rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate := h.svc.KeyRate()
	if rate <= 0 {
		h.writeError(w, service.ErrKeyRateUnavailable)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

// badRequest marks malformed client input
type badRequest struct {
	msg string
}

func (e badRequest) Error() string { return e.msg }

func decodeAmount(r *http.Request) (float64, error) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, badRequest{msg: "invalid request body"}
	}
	if req.Amount == nil {
		return 0, badRequest{msg: "amount is required"}
	}
	return *req.Amount, nil
}

// query collects the first parse error across several parameters
type query struct {
	values map[string][]string
	err    error
}

func (q *query) raw(key string) string {
	if v := q.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (q *query) floatParam(key string) float64 {
	if q.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(q.raw(key), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		q.err = badRequest{msg: fmt.Sprintf("invalid %s", key)}
		return 0
	}
	return v
}

func (q *query) intParam(key string) int {
	if q.err != nil {
		return 0
	}
	v, err := strconv.Atoi(q.raw(key))
	if err != nil {
		q.err = badRequest{msg: fmt.Sprintf("invalid %s", key)}
	}
	return v
}

func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br), errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrKeyRateUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("Request failed: %v", err)
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeJSON encodes before writing the header so an encode failure still
// reaches the client as a 500
func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: "failed to encode response"})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Errorf("Failed to write response: %v", err)
	}
}
