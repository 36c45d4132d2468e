package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser:     "cleanops",
		DBPassword: "secret",
		DBHost:     "db",
		DBPort:     3306,
		DBName:     "cleanops",
	}

	dsn := cfg.DSN()

	assert.Equal(t, "cleanops:secret@tcp(db:3306)/cleanops?parseTime=true&clientFoundRows=true", dsn)
}

// Без clientFoundRows драйвер считает только изменённые строки:
// повторная запись того же confirmation_status или той же оценки
// давала бы RowsAffected == 0 и ложный "заказ не найден".
func TestDSN_CountsFoundRows(t *testing.T) {
	cfg := &Config{DBUser: "u", DBName: "d", DBHost: "h", DBPort: 3306}

	assert.Contains(t, cfg.DSN(), "clientFoundRows=true")
}
