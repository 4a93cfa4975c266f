package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionStatus_Table(t *testing.T) {
	allowed := map[[2]ContractStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusConfirmed, StatusActive}:    true,
		{StatusActive, StatusCompleted}:    true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}: true,
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := allowed[[2]ContractStatus{from, to}]
			assert.Equal(t, want, CanTransitionStatus(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransitionStatus("unknown", StatusConfirmed))
	assert.False(t, CanTransitionStatus(StatusPending, "unknown"))
}

func TestCanTransitionPayment_Table(t *testing.T) {
	allowed := map[[2]PaymentStatus]bool{
		{PaymentPending, PaymentPartial}:  true,
		{PaymentPartial, PaymentPaid}:     true,
		{PaymentPending, PaymentRefunded}: true,
		{PaymentPartial, PaymentRefunded}: true,
		{PaymentPaid, PaymentRefunded}:    true,
	}

	for _, from := range AllPaymentStatuses {
		for _, to := range AllPaymentStatuses {
			want := allowed[[2]PaymentStatus{from, to}]
			assert.Equal(t, want, CanTransitionPayment(from, to), "%s -> %s", from, to)
		}
	}
}

func TestContract_TransitionStatus(t *testing.T) {
	created := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)

	t.Run("allowed transition updates status and timestamp", func(t *testing.T) {
		c := &Contract{ID: uuid.New(), Status: StatusPending, UpdatedAt: created}

		require.NoError(t, c.TransitionStatus(StatusConfirmed, now))

		assert.Equal(t, StatusConfirmed, c.Status)
		assert.Equal(t, now, c.UpdatedAt)
	})

	t.Run("completed contract cannot be cancelled", func(t *testing.T) {
		c := &Contract{ID: uuid.New(), Status: StatusCompleted, UpdatedAt: created}

		err := c.TransitionStatus(StatusCancelled, now)

		require.ErrorIs(t, err, ErrIllegalStatusTransition)
		var te *TransitionError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "completed", te.Current)
		assert.Equal(t, "cancelled", te.Requested)
		assert.Equal(t, StatusCompleted, c.Status)
		assert.Equal(t, created, c.UpdatedAt)
	})

	t.Run("self transition is rejected", func(t *testing.T) {
		c := &Contract{ID: uuid.New(), Status: StatusActive}
		assert.ErrorIs(t, c.TransitionStatus(StatusActive, now), ErrIllegalStatusTransition)
	})
}

func TestContract_TransitionPayment(t *testing.T) {
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	c := &Contract{ID: uuid.New(), PaymentStatus: PaymentPending}
	err := c.TransitionPayment(PaymentPaid, now)
	assert.ErrorIs(t, err, ErrIllegalPaymentTransition)
	assert.NotErrorIs(t, err, ErrIllegalStatusTransition)
	assert.Equal(t, PaymentPending, c.PaymentStatus)

	require.NoError(t, c.TransitionPayment(PaymentPartial, now))
	require.NoError(t, c.TransitionPayment(PaymentPaid, now))
	require.NoError(t, c.TransitionPayment(PaymentRefunded, now))
	assert.ErrorIs(t, c.TransitionPayment(PaymentPaid, now), ErrIllegalPaymentTransition)
}
