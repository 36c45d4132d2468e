package routing

import (
	"fmt"

	"cleanops/internal/storage"
)

// OrderDuration — расчётная длительность заказа в минутах:
// сумма длительность услуги × количество по всем позициям.
func OrderDuration(items []storage.OrderItem) int {
	total := 0
	for _, item := range items {
		total += item.EstimatedDuration * item.Quantity
	}
	return total
}

// FormatDuration — длительность для клиента: "س" часы, "د" минуты.
// Меньше часа — только минуты, ноль или меньше — прочерк.
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "-"
	}

	hours := minutes / 60
	mins := minutes % 60

	if hours == 0 {
		return fmt.Sprintf("%d د", mins)
	}
	return fmt.Sprintf("%d س %d د", hours, mins)
}
