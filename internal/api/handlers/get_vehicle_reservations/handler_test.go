package get_vehicle_reservations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListByVehicle(ctx context.Context, req *models.ListVehicleContractsRequest) (*models.ContractListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContractListResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(h *Handler, vehicleID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+vehicleID+"/reservations"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"vehicleId": vehicleID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(5, "2025-06-01", "", "true")
	require.NoError(t, err)
	assert.Equal(t, int64(5), req.VehicleID)
	require.NotNil(t, req.From)
	assert.Equal(t, "2025-06-01", *req.From)
	assert.Nil(t, req.To)
	assert.True(t, req.IncludeCancelled)

	_, err = ToServiceRequest(5, "", "", "maybe")
	assert.Error(t, err)
}

func TestHandler_Handle(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ListByVehicle", mock.Anything, mock.MatchedBy(func(req *models.ListVehicleContractsRequest) bool {
			return req.VehicleID == 5 && req.To != nil && *req.To == "2025-06-30" && !req.IncludeCancelled
		})).Return(&models.ContractListResponse{Contracts: []models.ContractResponse{{ID: "a"}, {ID: "b"}}}, nil)

		rec := doRequest(NewHandler(svc, nopLogger{}), "5", "?to=2025-06-30")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []models.ContractResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("bad vehicle id", func(t *testing.T) {
		rec := doRequest(NewHandler(new(MockService), nopLogger{}), "abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad flag", func(t *testing.T) {
		rec := doRequest(NewHandler(new(MockService), nopLogger{}), "5", "?includeCancelled=maybe")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("internal", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ListByVehicle", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		rec := doRequest(NewHandler(svc, nopLogger{}), "5", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
