package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	createReservation "github.com/m04kA/SMC-RentalService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidRange        = "некорректный период аренды, ожидаются даты YYYY-MM-DD и окончание не раньше начала"
	msgPastStartDate       = "дата начала аренды в прошлом"
	msgExcessiveDuration   = "период аренды превышает 365 дней"
	msgInvalidAccessory    = "некорректная дополнительная опция"
	msgInvalidRate         = "у автомобиля некорректный тариф"
	msgClientNotFound      = "клиент не найден"
	msgVehicleNotFound     = "автомобиль не найден"
	msgVehicleUnavailable  = "автомобиль недоступен на выбранные даты"
	msgConcurrencyConflict = "автомобиль сейчас бронируется другим запросом, повторите попытку"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, domain.ErrInvalidRange):
			msg = msgInvalidRange
		case errors.Is(err, domain.ErrPastStartDate):
			msg = msgPastStartDate
		case errors.Is(err, domain.ErrExcessiveDuration):
			msg = msgExcessiveDuration
		case errors.Is(err, domain.ErrInvalidAccessory):
			msg = msgInvalidAccessory
		case errors.Is(err, domain.ErrInvalidRate):
			msg = msgInvalidRate
		case errors.Is(err, createReservation.ErrClientNotFound):
			msg = msgClientNotFound
		case errors.Is(err, createReservation.ErrVehicleNotFound):
			msg = msgVehicleNotFound
		case errors.Is(err, domain.ErrVehicleUnavailable):
			msg = msgVehicleUnavailable
		case errors.Is(err, domain.ErrConcurrencyConflict):
			msg = msgConcurrencyConflict
		default:
			h.logger.Error("POST /reservations - Failed to create reservation: vehicle_id=%d, client_id=%d, error=%v",
				req.VehicleID, req.ClientID, err)
			handlers.RespondInternalError(w)
			return
		}

		h.logger.Warn("POST /reservations - Rejected: vehicle_id=%d, client_id=%d, reason=%v",
			req.VehicleID, req.ClientID, err)
		handlers.RespondDomainError(w, err, msg)
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: contract_id=%s, vehicle_id=%d, client_id=%d",
		response.ID, req.VehicleID, req.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
