package domain

import "time"

// Разрешенные переходы статуса аренды. Все остальные пары запрещены, включая переход в тот же статус.
var statusTransitions = map[ContractStatus][]ContractStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted},
}

// Разрешенные переходы статуса оплаты
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPartial, PaymentRefunded},
	PaymentPartial: {PaymentPaid, PaymentRefunded},
	PaymentPaid:    {PaymentRefunded},
}

// CanTransitionStatus проверяет переход по таблице статусов аренды
func CanTransitionStatus(from, to ContractStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment проверяет переход по таблице статусов оплаты
func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionStatus переводит договор в новый статус аренды.
// При запрещенном переходе договор не изменяется.
func (c *Contract) TransitionStatus(to ContractStatus, now time.Time) error {
	if !CanTransitionStatus(c.Status, to) {
		return &TransitionError{
			Kind:      ErrIllegalStatusTransition,
			Contract:  c.ID.String(),
			Current:   string(c.Status),
			Requested: string(to),
		}
	}
	c.Status = to
	c.UpdatedAt = now
	return nil
}

// TransitionPayment переводит договор в новый статус оплаты
func (c *Contract) TransitionPayment(to PaymentStatus, now time.Time) error {
	if !CanTransitionPayment(c.PaymentStatus, to) {
		return &TransitionError{
			Kind:      ErrIllegalPaymentTransition,
			Contract:  c.ID.String(),
			Current:   string(c.PaymentStatus),
			Requested: string(to),
		}
	}
	c.PaymentStatus = to
	c.UpdatedAt = now
	return nil
}
