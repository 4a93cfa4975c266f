package check_availability

import "github.com/m04kA/SMC-RentalService/internal/domain"

// Request модель запроса проверки доступности
type Request struct {
	VehicleID int64
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD, включительно
}

// Response модель ответа проверки доступности
type Response struct {
	VehicleID   int64
	Range       domain.DateRange
	Available   bool               // Свободен по календарю и в эксплуатации
	Operational bool               // Признак эксплуатации из автопарка
	Conflicts   []*domain.Contract // Пересекающиеся договоры
}
