package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

type MockExpenseUpdater struct {
	mock.Mock
}

func (m *MockExpenseUpdater) UpdateExpenseStatus(ctx context.Context, id int64, status storage.ExpenseStatus, rejectionReason *string) error {
	args := m.Called(ctx, id, status, rejectionReason)
	return args.Error(0)
}

func (m *MockExpenseUpdater) CreateNotification(ctx context.Context, title, body string) error {
	args := m.Called(ctx, title, body)
	return args.Error(0)
}

func doRequest(handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Post("/api/expenses/{id}/status", handler)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestUpdateExpenseStatus_Approve(t *testing.T) {
	mockUpdater := new(MockExpenseUpdater)
	bus := eventbus.New()

	emitted := 0
	bus.On(eventbus.TopicExpensesChanged, func() { emitted++ })

	mockUpdater.On("UpdateExpenseStatus", mock.Anything, int64(3), storage.ExpenseApproved, (*string)(nil)).
		Return(nil)

	handler := UpdateExpenseStatus(slog.Default(), mockUpdater, bus)

	rr := doRequest(handler, "/api/expenses/3/status", `{"status":"approved"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, emitted)
	mockUpdater.AssertNotCalled(t, "CreateNotification")
	mockUpdater.AssertExpectations(t)
}

// Отклонение без причины не принимается: 400 до обращения к хранилищу.
// Причина из одних пробелов — тоже не причина.
func TestUpdateExpenseStatus_RejectWithoutReason(t *testing.T) {
	bodies := []string{
		`{"status":"rejected"}`,
		`{"status":"rejected","rejection_reason":"   "}`,
	}

	for _, body := range bodies {
		mockUpdater := new(MockExpenseUpdater)
		handler := UpdateExpenseStatus(slog.Default(), mockUpdater, eventbus.New())

		rr := doRequest(handler, "/api/expenses/3/status", body)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "body=%s", body)
		assert.Contains(t, rr.Body.String(), "سبب الرفض مطلوب")
		mockUpdater.AssertNotCalled(t, "UpdateExpenseStatus")
	}
}

func TestUpdateExpenseStatus_RejectWithReason(t *testing.T) {
	mockUpdater := new(MockExpenseUpdater)

	mockUpdater.On("UpdateExpenseStatus", mock.Anything, int64(3), storage.ExpenseRejected,
		mock.MatchedBy(func(reason *string) bool {
			return reason != nil && *reason == "لا يوجد إيصال"
		})).
		Return(nil)
	mockUpdater.On("CreateNotification", mock.Anything, mock.Anything, "لا يوجد إيصال").
		Return(nil)

	handler := UpdateExpenseStatus(slog.Default(), mockUpdater, eventbus.New())

	rr := doRequest(handler, "/api/expenses/3/status", `{"status":"rejected","rejection_reason":"لا يوجد إيصال"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockUpdater.AssertExpectations(t)
}

// Решение по расходу принимается один раз: повторное — конфликт.
func TestUpdateExpenseStatus_AlreadyDecided(t *testing.T) {
	mockUpdater := new(MockExpenseUpdater)

	mockUpdater.On("UpdateExpenseStatus", mock.Anything, int64(3), storage.ExpenseApproved, (*string)(nil)).
		Return(fmt.Errorf("storage.mysql.UpdateExpenseStatus: %w", storage.ErrInvalidTransition))

	handler := UpdateExpenseStatus(slog.Default(), mockUpdater, eventbus.New())

	rr := doRequest(handler, "/api/expenses/3/status", `{"status":"approved"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUpdateExpenseStatus_PendingRejected(t *testing.T) {
	mockUpdater := new(MockExpenseUpdater)
	handler := UpdateExpenseStatus(slog.Default(), mockUpdater, eventbus.New())

	// вернуть расход в pending через этот endpoint нельзя
	rr := doRequest(handler, "/api/expenses/3/status", `{"status":"pending"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockUpdater.AssertNotCalled(t, "UpdateExpenseStatus")
}
