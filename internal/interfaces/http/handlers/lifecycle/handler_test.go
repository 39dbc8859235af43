package lifecycle

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/application/subscription/dto"
	"github.com/leadhub/leadhub/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/leadhub/leadhub/internal/shared/errors"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

type mockLifecycleReader struct {
	mock.Mock
}

func (m *mockLifecycleReader) GetExpirationSummary(ctx context.Context) *dto.ExpirationSummaryDTO {
	args := m.Called(ctx)
	return args.Get(0).(*dto.ExpirationSummaryDTO)
}

func (m *mockLifecycleReader) ListDeliveries(ctx context.Context, subscriptionID uint) ([]*dto.DeliveryRecordDTO, error) {
	args := m.Called(ctx, subscriptionID)
	records, _ := args.Get(0).([]*dto.DeliveryRecordDTO)
	return records, args.Error(1)
}

func TestGetExpirationSummary(t *testing.T) {
	generated := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	provider := new(mockLifecycleReader)
	provider.On("GetExpirationSummary", mock.Anything).Return(&dto.ExpirationSummaryDTO{
		ExpiringIn7Days:  3,
		ExpiringIn30Days: 10,
		AlreadyExpired:   2,
		GeneratedAt:      generated,
	})

	handler := NewHandler(provider, logger.NewNopLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/subscriptions/expiration-summary", nil)

	handler.GetExpirationSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, float64(3), body.Data["expiring_in_7_days"])
	assert.Equal(t, float64(10), body.Data["expiring_in_30_days"])
	assert.Equal(t, float64(2), body.Data["already_expired"])

	provider.AssertExpectations(t)
}

func TestGetExpirationSummary_ZeroCounts(t *testing.T) {
	provider := new(mockLifecycleReader)
	provider.On("GetExpirationSummary", mock.Anything).Return(&dto.ExpirationSummaryDTO{})

	handler := NewHandler(provider, logger.NewNopLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/subscriptions/expiration-summary", nil)

	handler.GetExpirationSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"expiring_in_7_days":0,"expiring_in_30_days":0,"already_expired":0,"generated_at":"0001-01-01T00:00:00Z"}`,
		extractData(t, w.Body.Bytes()))
}

func TestListDeliveries(t *testing.T) {
	created := time.Date(2026, 3, 10, 2, 0, 5, 0, time.UTC)
	reader := new(mockLifecycleReader)
	reader.On("ListDeliveries", mock.Anything, uint(42)).Return([]*dto.DeliveryRecordDTO{
		{ID: 1, Kind: "renewal_reminder", Success: false, Error: "smtp timeout", CreatedAt: created},
		{ID: 2, Kind: "renewal_reminder", Success: true, CreatedAt: created.Add(24 * time.Hour)},
	}, nil)

	handler := NewHandler(reader, logger.NewNopLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/subscriptions/42/deliveries", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	handler.ListDeliveries(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(extractData(t, w.Body.Bytes())), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "smtp timeout", records[0]["error"])
	assert.Equal(t, true, records[1]["success"])
	reader.AssertExpectations(t)
}

func TestListDeliveries_InvalidID(t *testing.T) {
	reader := new(mockLifecycleReader)
	handler := NewHandler(reader, logger.NewNopLogger())

	for _, raw := range []string{"abc", "0", "-3"} {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/subscriptions/"+raw+"/deliveries", nil)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		handler.ListDeliveries(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}
	reader.AssertNotCalled(t, "ListDeliveries", mock.Anything, mock.Anything)
}

func TestListDeliveries_NotFound(t *testing.T) {
	reader := new(mockLifecycleReader)
	reader.On("ListDeliveries", mock.Anything, uint(7)).
		Return(nil, apperrors.NewNotFoundError("subscription not found"))

	handler := NewHandler(reader, logger.NewNopLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/subscriptions/7/deliveries", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.ListDeliveries(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func extractData(t *testing.T, raw []byte) string {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	return string(body.Data)
}
