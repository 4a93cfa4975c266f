package fleetservice

import "github.com/shopspring/decimal"

// Vehicle модель автомобиля из FleetService
type Vehicle struct {
	ID            int64           `json:"id"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	LicensePlate  string          `json:"license_plate"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	IsOperational bool            `json:"is_operational"` // false: ремонт, обслуживание или вывод из эксплуатации
}

// ErrorResponse модель ошибки от FleetService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
