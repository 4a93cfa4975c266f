package fleetservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestClient_GetVehicle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/vehicles/1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"brand":"Skoda","model":"Octavia","daily_rate":"5000.00","is_operational":true}`))
		case "/internal/vehicles/2":
			_, _ = w.Write([]byte(`{"id":2,"daily_rate":3500,"is_operational":false}`))
		case "/internal/vehicles/3":
			_, _ = w.Write([]byte(`not json`))
		case "/internal/vehicles/500":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`boom`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second, nopLogger{})
	ctx := context.Background()

	t.Run("operational vehicle", func(t *testing.T) {
		v, err := client.GetVehicle(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Skoda", v.Brand)
		assert.True(t, decimal.NewFromInt(5000).Equal(v.DailyRate))
		assert.True(t, v.IsOperational)
	})

	t.Run("vehicle in maintenance", func(t *testing.T) {
		v, err := client.GetVehicle(ctx, 2)
		require.NoError(t, err)
		assert.False(t, v.IsOperational)
		assert.True(t, decimal.NewFromInt(3500).Equal(v.DailyRate))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetVehicle(ctx, 404)
		assert.ErrorIs(t, err, ErrVehicleNotFound)
	})

	t.Run("bad body", func(t *testing.T) {
		_, err := client.GetVehicle(ctx, 3)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := client.GetVehicle(ctx, 500)
		assert.ErrorIs(t, err, ErrInvalidResponse)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestClient_GetVehicle_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, 100*time.Millisecond, nopLogger{}).GetVehicle(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInternal)
}
