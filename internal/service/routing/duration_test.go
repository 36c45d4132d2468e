package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cleanops/internal/storage"
)

func TestOrderDuration(t *testing.T) {
	items := []storage.OrderItem{
		{EstimatedDuration: 30, Quantity: 2},
		{EstimatedDuration: 45, Quantity: 1},
	}

	assert.Equal(t, 105, OrderDuration(items))
	assert.Equal(t, 0, OrderDuration(nil))
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "-"},
		{-5, "-"},
		{45, "45 د"},
		{60, "1 س 0 د"},
		{105, "1 س 45 د"},
		{150, "2 س 30 د"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.minutes), "minutes=%d", tc.minutes)
	}
}
