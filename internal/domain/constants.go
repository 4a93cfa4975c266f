package domain

import "github.com/shopspring/decimal"

// Бизнес-ограничения бронирования
const (
	MaxRentalDays        = 365 // максимальная длина аренды (end - start) в днях
	MinAccessoryQuantity = 1
	MaxAccessories       = 50
	MaxAccessoryName     = 100
)

// DepositRate доля предоплаты от итоговой стоимости договора
var DepositRate = decimal.RequireFromString("0.3")

// MoneyScale число знаков после запятой в денежных колонках NUMERIC(12,2)
const MoneyScale = 2

// MaxMoneyAmount наибольшая сумма, которая помещается в NUMERIC(12,2)
var MaxMoneyAmount = decimal.RequireFromString("9999999999.99")

// Форматы дат
const (
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"
)

// BlockingStatuses статусы договоров, занимающих автомобиль в календаре
var BlockingStatuses = []ContractStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusCompleted,
}

// AllStatuses все статусы аренды
var AllStatuses = []ContractStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusCompleted,
	StatusCancelled,
}

// AllPaymentStatuses все статусы оплаты
var AllPaymentStatuses = []PaymentStatus{
	PaymentPending,
	PaymentPartial,
	PaymentPaid,
	PaymentRefunded,
}
