package get_vehicle_calendar

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	getVehicleCalendar "github.com/m04kA/SMC-RentalService/internal/usecase/get_vehicle_calendar"
)

// DayResponse доступность автомобиля в конкретный день
type DayResponse struct {
	Date      string `json:"date"` // "2025-06-01"
	Available bool   `json:"available"`
}

// CalendarResponse HTTP response model
type CalendarResponse struct {
	VehicleID   int64         `json:"vehicleId"`
	Year        int           `json:"year"`
	Month       int           `json:"month"`
	Operational bool          `json:"operational"`
	Days        []DayResponse `json:"days"`
}

// ToUseCaseRequest формирует запрос к use case из параметров пути и query
func ToUseCaseRequest(vehicleID int64, yearStr, monthStr string) (*getVehicleCalendar.Request, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, err
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return nil, err
	}

	return &getVehicleCalendar.Request{
		VehicleID: vehicleID,
		Year:      year,
		Month:     time.Month(month),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getVehicleCalendar.Response) *CalendarResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, d := range resp.Days {
		days = append(days, DayResponse{
			Date:      domain.DayKey(d.Date),
			Available: d.Available,
		})
	}

	return &CalendarResponse{
		VehicleID:   resp.VehicleID,
		Year:        resp.Year,
		Month:       int(resp.Month),
		Operational: resp.Operational,
		Days:        days,
	}
}
