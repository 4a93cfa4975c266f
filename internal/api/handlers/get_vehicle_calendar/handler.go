package get_vehicle_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	getVehicleCalendar "github.com/m04kA/SMC-RentalService/internal/usecase/get_vehicle_calendar"
)

const (
	msgInvalidVehicleID = "некорректный ID автомобиля"
	msgInvalidMonth     = "некорректные год или месяц, ожидаются параметры year и month"
	msgVehicleNotFound  = "автомобиль не найден"
)

type Handler struct {
	useCase GetVehicleCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetVehicleCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/vehicles/{vehicleId}/availability?year=2025&month=6
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(mux.Vars(r)["vehicleId"], 10, 64)
	if err != nil || vehicleID <= 0 {
		h.logger.Warn("GET /vehicles/{id}/availability - Invalid vehicle ID: %s", mux.Vars(r)["vehicleId"])
		handlers.RespondBadRequest(w, msgInvalidVehicleID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(vehicleID, query.Get("year"), query.Get("month"))
	if err != nil {
		h.logger.Warn("GET /vehicles/{id}/availability - Invalid year/month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getVehicleCalendar.ErrInvalidMonth):
			h.logger.Warn("GET /vehicles/{id}/availability - Invalid month: vehicle_id=%d, year=%d, month=%d",
				vehicleID, useCaseReq.Year, useCaseReq.Month)
			handlers.RespondDomainError(w, err, msgInvalidMonth)

		case errors.Is(err, getVehicleCalendar.ErrVehicleNotFound):
			h.logger.Warn("GET /vehicles/{id}/availability - Vehicle not found: vehicle_id=%d", vehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		default:
			h.logger.Error("GET /vehicles/{id}/availability - Failed to build calendar: vehicle_id=%d, error=%v",
				vehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vehicles/{id}/availability - Calendar built successfully: vehicle_id=%d, year=%d, month=%d",
		vehicleID, result.Year, result.Month)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
