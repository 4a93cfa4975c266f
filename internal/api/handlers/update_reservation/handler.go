package update_reservation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	updateReservation "github.com/m04kA/SMC-RentalService/internal/usecase/update_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID договора"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNothingToUpdate      = "нет полей для изменения"
	msgInvalidRange         = "некорректный период аренды"
	msgPastStartDate        = "дата начала аренды в прошлом"
	msgExcessiveDuration    = "период аренды превышает 365 дней"
	msgInvalidAccessory     = "некорректная дополнительная опция"
	msgNotFound             = "договор не найден"
	msgNotEditable          = "изменять можно только неподтвержденный договор"
	msgVehicleUnavailable   = "автомобиль недоступен на выбранные даты"
	msgConcurrencyConflict  = "автомобиль сейчас бронируется другим запросом, повторите попытку"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := uuid.Parse(mux.Vars(r)["reservationId"])
	if err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(reservationID))
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, updateReservation.ErrNothingToUpdate):
			msg = msgNothingToUpdate
		case errors.Is(err, domain.ErrInvalidRange):
			msg = msgInvalidRange
		case errors.Is(err, domain.ErrPastStartDate):
			msg = msgPastStartDate
		case errors.Is(err, domain.ErrExcessiveDuration):
			msg = msgExcessiveDuration
		case errors.Is(err, domain.ErrInvalidAccessory):
			msg = msgInvalidAccessory
		case errors.Is(err, updateReservation.ErrContractNotFound):
			msg = msgNotFound
		case errors.Is(err, updateReservation.ErrNotEditable):
			msg = msgNotEditable
		case errors.Is(err, domain.ErrVehicleUnavailable):
			msg = msgVehicleUnavailable
		case errors.Is(err, domain.ErrConcurrencyConflict):
			msg = msgConcurrencyConflict
		default:
			h.logger.Error("PUT /reservations/{id} - Failed to update contract: contract_id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
			return
		}

		h.logger.Warn("PUT /reservations/{id} - Rejected: contract_id=%s, reason=%v", reservationID, err)
		handlers.RespondDomainError(w, err, msg)
		return
	}

	h.logger.Info("PUT /reservations/{id} - Contract updated successfully: contract_id=%s", reservationID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
