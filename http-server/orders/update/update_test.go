package update

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cleanops/internal/service/orderflow"
	"cleanops/internal/storage"
)

type MockOrderFlow struct {
	mock.Mock
}

func (m *MockOrderFlow) ChangeStatus(ctx context.Context, orderID int64, newStatus storage.OrderStatus, reason string) error {
	args := m.Called(ctx, orderID, newStatus, reason)
	return args.Error(0)
}

func (m *MockOrderFlow) ChangeConfirmation(ctx context.Context, orderID int64, newStatus storage.ConfirmationStatus, reason *string) error {
	args := m.Called(ctx, orderID, newStatus, reason)
	return args.Error(0)
}

func (m *MockOrderFlow) SubmitRating(ctx context.Context, orderID int64, rating int, feedback string) error {
	args := m.Called(ctx, orderID, rating, feedback)
	return args.Error(0)
}

// Запрос через chi-роутер, чтобы URLParam("id") был заполнен.
func doRequest(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Method(method, "/api/orders/{id}/status", handler)
	router.Method(method, "/api/orders/{id}/confirmation", handler)
	router.Method(method, "/api/orders/{id}/rating", handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	mockFlow := new(MockOrderFlow)
	mockFlow.On("ChangeStatus", mock.Anything, int64(7), storage.OrderScheduled, "").
		Return(nil)

	handler := UpdateOrderStatus(slog.Default(), mockFlow)

	rr := doRequest(handler, http.MethodPost, "/api/orders/7/status", `{"status":"scheduled"}`)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, float64(7), resp["order_id"])
	mockFlow.AssertExpectations(t)
}

// Отмена без причины: 400 с арабским текстом, сервис получает запрос
// и отклоняет его до базы.
func TestUpdateOrderStatus_CancelWithoutReason(t *testing.T) {
	mockFlow := new(MockOrderFlow)
	mockFlow.On("ChangeStatus", mock.Anything, int64(7), storage.OrderCancelled, "").
		Return(fmt.Errorf("service.orderflow.ChangeStatus: %w", orderflow.ErrCancelReasonRequired))

	handler := UpdateOrderStatus(slog.Default(), mockFlow)

	rr := doRequest(handler, http.MethodPost, "/api/orders/7/status", `{"status":"cancelled"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "سبب الإلغاء مطلوب")
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	mockFlow := new(MockOrderFlow)
	mockFlow.On("ChangeStatus", mock.Anything, int64(7), storage.OrderPending, "").
		Return(fmt.Errorf("service.orderflow.ChangeStatus: %w", storage.ErrInvalidTransition))

	handler := UpdateOrderStatus(slog.Default(), mockFlow)

	rr := doRequest(handler, http.MethodPost, "/api/orders/7/status", `{"status":"pending"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	mockFlow := new(MockOrderFlow)
	mockFlow.On("ChangeStatus", mock.Anything, int64(404), storage.OrderScheduled, "").
		Return(fmt.Errorf("service.orderflow.ChangeStatus: %w", storage.ErrNotFound))

	handler := UpdateOrderStatus(slog.Default(), mockFlow)

	rr := doRequest(handler, http.MethodPost, "/api/orders/404/status", `{"status":"scheduled"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateOrderStatus_BadID(t *testing.T) {
	mockFlow := new(MockOrderFlow)
	handler := UpdateOrderStatus(slog.Default(), mockFlow)

	rr := doRequest(handler, http.MethodPost, "/api/orders/abc/status", `{"status":"scheduled"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockFlow.AssertNotCalled(t, "ChangeStatus")
}

func TestUpdateConfirmation_Success(t *testing.T) {
	mockFlow := new(MockOrderFlow)
	mockFlow.On("ChangeConfirmation", mock.Anything, int64(7), storage.ConfirmationConfirmed, (*string)(nil)).
		Return(nil)

	handler := UpdateConfirmation(slog.Default(), mockFlow)

	rr := doRequest(handler, http.MethodPost, "/api/orders/7/confirmation", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockFlow.AssertExpectations(t)
}

// Ошибки валидации оценки возвращаются с указанием поля.
func TestSubmitRating_FieldErrors(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		rating     int
		feedback   string
		serviceErr error
		wantField  string
	}{
		{
			name:       "rating out of range",
			body:       `{"rating":9,"feedback":"خدمة ممتازة وسريعة"}`,
			rating:     9,
			feedback:   "خدمة ممتازة وسريعة",
			serviceErr: orderflow.ErrRatingOutOfRange,
			wantField:  "rating",
		},
		{
			name:       "feedback too short",
			body:       `{"rating":4,"feedback":"ok"}`,
			rating:     4,
			feedback:   "ok",
			serviceErr: orderflow.ErrFeedbackTooShort,
			wantField:  "feedback",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockFlow := new(MockOrderFlow)
			mockFlow.On("SubmitRating", mock.Anything, int64(7), tc.rating, tc.feedback).
				Return(fmt.Errorf("service.orderflow.SubmitRating: %w", tc.serviceErr))

			handler := SubmitRating(slog.Default(), mockFlow)

			rr := doRequest(handler, http.MethodPost, "/api/orders/7/rating", tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var resp map[string]string
			assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantField, resp["field"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestSubmitRating_NotCompleted(t *testing.T) {
	mockFlow := new(MockOrderFlow)
	mockFlow.On("SubmitRating", mock.Anything, int64(7), 5, "خدمة ممتازة وسريعة").
		Return(fmt.Errorf("service.orderflow.SubmitRating: %w", orderflow.ErrOrderNotCompleted))

	handler := SubmitRating(slog.Default(), mockFlow)

	rr := doRequest(handler, http.MethodPost, "/api/orders/7/rating", `{"rating":5,"feedback":"خدمة ممتازة وسريعة"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
}
