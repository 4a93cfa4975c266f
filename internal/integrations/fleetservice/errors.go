package fleetservice

import "errors"

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден в автопарке
	ErrVehicleNotFound = errors.New("fleetservice client: vehicle not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("fleetservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("fleetservice client: invalid response")
)
