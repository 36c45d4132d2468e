package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"cleanops/internal/storage"
)

type ReportStorage interface {
	GetExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]*storage.Expense, error)
	GetTeams(ctx context.Context) ([]*storage.Team, error)
}

type ExcelService struct {
	storage ReportStorage
}

func NewExcelService(storage ReportStorage) *ExcelService {
	return &ExcelService{storage: storage}
}

var expenseStatusLabels = map[storage.ExpenseStatus]string{
	storage.ExpensePending:  "قيد الانتظار",
	storage.ExpenseApproved: "معتمد",
	storage.ExpenseRejected: "مرفوض",
}

// GenerateExpenses собирает месячный отчёт по расходам: строка на
// расход, итоговая сумма по одобренным внизу.
func (g *ExcelService) GenerateExpenses(ctx context.Context, year, month int) ([]byte, error) {
	const op = "service.report.GenerateExpenses"

	expenses, err := g.storage.GetExpenses(ctx, storage.ExpenseFilter{Year: year, Month: month})
	if err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	teams, err := g.storage.GetTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch teams: %w", op, err)
	}
	teamNames := make(map[int64]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "المصروفات"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{"التاريخ", "الوصف", "الفريق", "المبلغ", "الحالة", "سبب الرفض"}
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	var approvedTotal float64
	row := 2
	for _, e := range expenses {
		team := ""
		if e.TeamID != nil {
			team = teamNames[*e.TeamID]
		}
		reason := ""
		if e.RejectionReason != nil {
			reason = *e.RejectionReason
		}

		values := []interface{}{e.SpentAt, e.Description, team, e.Amount, expenseStatusLabels[e.Status], reason}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}

		if e.Status == storage.ExpenseApproved {
			approvedTotal += e.Amount
		}
		row++
	}

	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	labelCell, _ := excelize.CoordinatesToCellName(3, row+1)
	sumCell, _ := excelize.CoordinatesToCellName(4, row+1)
	f.SetCellValue(sheet, labelCell, "إجمالي المعتمد")
	f.SetCellValue(sheet, sumCell, approvedTotal)
	f.SetCellStyle(sheet, labelCell, sumCell, totalStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write buffer: %w", op, err)
	}

	return buf.Bytes(), nil
}
