package update_reservation_payment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID договора"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnknownStatus        = "неизвестный статус оплаты"
	msgNotFound             = "договор не найден"
	msgIllegalTransition    = "переход в указанный статус оплаты недопустим"
	msgConcurrencyConflict  = "договор изменяется другим запросом, повторите попытку"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reservations/{reservationId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := uuid.Parse(mux.Vars(r)["reservationId"])
	if err != nil {
		h.logger.Warn("PUT /reservations/{id}/payment - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req models.TransitionPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reservations/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	contract, err := h.service.TransitionPayment(r.Context(), reservationID, &req)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			msg = msgUnknownStatus
		case errors.Is(err, reservations.ErrContractNotFound):
			msg = msgNotFound
		case errors.Is(err, domain.ErrIllegalPaymentTransition):
			msg = msgIllegalTransition
		case errors.Is(err, domain.ErrConcurrencyConflict):
			msg = msgConcurrencyConflict
		default:
			h.logger.Error("PUT /reservations/{id}/payment - Failed to change payment status: contract_id=%s, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
			return
		}

		h.logger.Warn("PUT /reservations/{id}/payment - Rejected: contract_id=%s, payment_status=%s, reason=%v",
			reservationID, req.PaymentStatus, err)
		handlers.RespondDomainError(w, err, msg)
		return
	}

	h.logger.Info("PUT /reservations/{id}/payment - Payment status changed successfully: contract_id=%s, payment_status=%s",
		reservationID, contract.PaymentStatus)
	handlers.RespondJSON(w, http.StatusOK, contract)
}
