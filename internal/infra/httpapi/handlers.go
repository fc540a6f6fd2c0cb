package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xvolv/tenant/internal/app"
	"github.com/xvolv/tenant/internal/domain/calendar"
	"github.com/xvolv/tenant/internal/domain/notification"
	"github.com/xvolv/tenant/internal/domain/rent"
	"github.com/xvolv/tenant/internal/infra/database"
)

// SchedulerControl is the subset of the scheduler the API needs.
type SchedulerControl interface {
	Start() error
	Stop()
	Running() bool
}

// PaymentRecorder toggles a payment record and triggers the confirmation send.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, roomID string, year, month int, isPaid bool) (*rent.PaymentRecord, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	dispatcher app.Dispatcher
	scheduler  SchedulerControl
	payments   PaymentRecorder
	logger     *logrus.Logger
}

func NewHandler(dispatcher app.Dispatcher, scheduler SchedulerControl, payments PaymentRecorder, logger *logrus.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		scheduler:  scheduler,
		payments:   payments,
		logger:     logger,
	}
}

type scanResponse struct {
	Success   bool                         `json:"success"`
	Timestamp string                       `json:"timestamp"`
	Results   *notification.DispatchResult `json:"results"`
}

type schedulerRequest struct {
	Action string `json:"action"`
}

type schedulerResponse struct {
	Running bool `json:"running"`
}

type paymentRequest struct {
	RoomID     string `json:"roomId"`
	Year       int    `json:"year"`
	MonthIndex int    `json:"monthIndex"`
	IsPaid     bool   `json:"isPaid"`
}

type paymentResponse struct {
	RoomID     string `json:"roomId"`
	Year       int    `json:"year"`
	MonthIndex int    `json:"monthIndex"`
	IsPaid     bool   `json:"isPaid"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RunNotificationScan triggers a full scan immediately, outside the schedule.
func (h *Handler) RunNotificationScan(w http.ResponseWriter, r *http.Request) {
	result, err := h.dispatcher.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("manual notification scan failed")
		writeError(w, http.StatusInternalServerError, "notification scan failed", err)
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   result,
	})
}

func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schedulerResponse{Running: h.scheduler.Running()})
}

func (h *Handler) ControlScheduler(w http.ResponseWriter, r *http.Request) {
	var req schedulerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	switch req.Action {
	case "start":
		if err := h.scheduler.Start(); err != nil {
			writeError(w, http.StatusInternalServerError, "could not start scheduler", err)
			return
		}
	case "stop":
		h.scheduler.Stop()
	case "status":
		// Fall through to the status response.
	default:
		writeError(w, http.StatusBadRequest, "unknown action, want start, stop or status", nil)
		return
	}

	writeJSON(w, http.StatusOK, schedulerResponse{Running: h.scheduler.Running()})
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "roomId is required", nil)
		return
	}

	rec, err := h.payments.RecordPayment(r.Context(), req.RoomID, req.Year, req.MonthIndex, req.IsPaid)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrRoomNotFound):
			writeError(w, http.StatusNotFound, "room not found", nil)
		case errors.As(err, new(*calendar.Error)):
			writeError(w, http.StatusBadRequest, "invalid billing period", err)
		default:
			writeError(w, http.StatusInternalServerError, "could not record payment", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, paymentResponse{
		RoomID:     rec.RoomID,
		Year:       rec.Year,
		MonthIndex: rec.Month,
		IsPaid:     rec.IsPaid,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
