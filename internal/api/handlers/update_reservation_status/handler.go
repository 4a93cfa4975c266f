package update_reservation_status

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
	msgUnknownStatus        = "неизвестный статус аренды"
	msgNotFound             = "договор не найден"
	msgIllegalTransition    = "переход в указанный статус недопустим"
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

// Handle PUT /api/v1/reservations/{reservationId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := uuid.Parse(mux.Vars(r)["reservationId"])
	if err != nil {
		h.logger.Warn("PUT /reservations/{id}/status - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req models.TransitionStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reservations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	contract, err := h.service.TransitionStatus(r.Context(), reservationID, &req)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			msg = msgUnknownStatus
		case errors.Is(err, reservations.ErrContractNotFound):
			msg = msgNotFound
		case errors.Is(err, domain.ErrIllegalStatusTransition):
			msg = msgIllegalTransition
		case errors.Is(err, domain.ErrConcurrencyConflict):
			msg = msgConcurrencyConflict
		default:
			h.logger.Error("PUT /reservations/{id}/status - Failed to change status: contract_id=%s, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
			return
		}

		h.logger.Warn("PUT /reservations/{id}/status - Rejected: contract_id=%s, status=%s, reason=%v",
			reservationID, req.Status, err)
		handlers.RespondDomainError(w, err, msg)
		return
	}

	h.logger.Info("PUT /reservations/{id}/status - Status changed successfully: contract_id=%s, status=%s",
		reservationID, contract.Status)
	handlers.RespondJSON(w, http.StatusOK, contract)
}
