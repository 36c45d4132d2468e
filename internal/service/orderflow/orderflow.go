package orderflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

// Ошибки валидации: наружу уходят как 400 с указанием поля.
var (
	ErrCancelReasonRequired = errors.New("cancellation requires a reason")
	ErrRatingOutOfRange     = errors.New("rating must be between 1 and 5")
	ErrFeedbackTooShort     = errors.New("feedback must be at least 10 characters")
	ErrOrderNotCompleted    = errors.New("rating allowed only for completed orders")
	ErrUnknownStatus        = errors.New("unknown status")
)

const minFeedbackLen = 10

type OrderStorage interface {
	GetOrderDetails(ctx context.Context, id int64) (*storage.OrderDetails, error)
	UpdateOrderStatus(ctx context.Context, id int64, from, to storage.OrderStatus, notes *string) error
	UpdateConfirmationStatus(ctx context.Context, id int64, status storage.ConfirmationStatus) error
	SaveOrderRating(ctx context.Context, id int64, rating int, feedback string) error
	CreateNotification(ctx context.Context, title, body string) error
}

// Service — статусные переходы заказа. Никаких оптимистичных правок:
// после успешной записи шина говорит подписчикам перечитать данные.
type Service struct {
	storage OrderStorage
	bus     *eventbus.Bus
}

func NewService(storage OrderStorage, bus *eventbus.Bus) *Service {
	return &Service{storage: storage, bus: bus}
}

// ChangeStatus проводит заказ по машине статусов. Отмена требует
// непустой причины — проверяется до любого обращения к базе.
func (s *Service) ChangeStatus(ctx context.Context, orderID int64, newStatus storage.OrderStatus, reason string) error {
	const op = "service.orderflow.ChangeStatus"

	if !newStatus.Valid() {
		return fmt.Errorf("%s: %q: %w", op, newStatus, ErrUnknownStatus)
	}

	reason = strings.TrimSpace(reason)
	if newStatus == storage.OrderCancelled && reason == "" {
		return fmt.Errorf("%s: %w", op, ErrCancelReasonRequired)
	}

	details, err := s.storage.GetOrderDetails(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	from := details.Order.Status
	if !from.CanTransition(newStatus) {
		return fmt.Errorf("%s: %s -> %s: %w", op, from, newStatus, storage.ErrInvalidTransition)
	}

	var notes *string
	if newStatus == storage.OrderCancelled {
		notes = &reason
	}

	if err := s.storage.UpdateOrderStatus(ctx, orderID, from, newStatus, notes); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if newStatus == storage.OrderCancelled {
		_ = s.storage.CreateNotification(ctx,
			"تم إلغاء الطلب",
			fmt.Sprintf("طلب رقم %d: %s", orderID, reason),
		)
	}

	s.bus.Emit(eventbus.TopicOrdersChanged)

	return nil
}

// ChangeConfirmation — статус подтверждения клиентом. Машины нет,
// оператор волен менять значение в любую сторону; reason — опциональная
// пометка, в базовом сценарии приходит пустым.
func (s *Service) ChangeConfirmation(ctx context.Context, orderID int64, newStatus storage.ConfirmationStatus, reason *string) error {
	const op = "service.orderflow.ChangeConfirmation"

	if !newStatus.Valid() {
		return fmt.Errorf("%s: %q: %w", op, newStatus, ErrUnknownStatus)
	}

	if err := s.storage.UpdateConfirmationStatus(ctx, orderID, newStatus); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if newStatus == storage.ConfirmationDeclined && reason != nil && *reason != "" {
		_ = s.storage.CreateNotification(ctx,
			"رفض العميل الطلب",
			fmt.Sprintf("طلب رقم %d: %s", orderID, *reason),
		)
	}

	s.bus.Emit(eventbus.TopicOrdersChanged)

	return nil
}

// SubmitRating сохраняет оценку и отзыв клиента. Доступно только для
// завершённых заказов; границы проверяются до обращения к базе.
func (s *Service) SubmitRating(ctx context.Context, orderID int64, rating int, feedback string) error {
	const op = "service.orderflow.SubmitRating"

	if rating < 1 || rating > 5 {
		return fmt.Errorf("%s: rating=%d: %w", op, rating, ErrRatingOutOfRange)
	}
	if utf8.RuneCountInString(strings.TrimSpace(feedback)) < minFeedbackLen {
		return fmt.Errorf("%s: %w", op, ErrFeedbackTooShort)
	}

	details, err := s.storage.GetOrderDetails(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if details.Order.Status != storage.OrderCompleted {
		return fmt.Errorf("%s: status=%s: %w", op, details.Order.Status, ErrOrderNotCompleted)
	}

	if err := s.storage.SaveOrderRating(ctx, orderID, rating, feedback); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.bus.Emit(eventbus.TopicOrdersChanged)

	return nil
}
