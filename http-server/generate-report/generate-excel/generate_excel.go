package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type ExcelGenerator interface {
	GenerateExpenses(ctx context.Context, year, month int) ([]byte, error)
}

// GenerateReportExcel отдаёт месячный отчёт по расходам файлом xlsx.
func GenerateReportExcel(log *slog.Logger, generator ExcelGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.generate-report.GenerateReportExcel"

		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return
		}
		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "Invalid month", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		data, err := generator.GenerateExpenses(ctx, year, month)
		if err != nil {
			log.Error("Ошибка генерации отчёта", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("expenses_%d_%02d.xlsx", year, month)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))

		if _, err := w.Write(data); err != nil {
			log.Error("Ошибка отдачи отчёта", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
