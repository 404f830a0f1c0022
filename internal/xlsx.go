package internal

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// RenderXLSX writes the report as an xlsx workbook with one sheet per view.
func RenderXLSX(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const basicSheet = "Debts"
	const extraSheet = "Debts Extra"

	if err := f.SetSheetName("Sheet1", basicSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetCellValue(basicSheet, "A1", "Id")
	f.SetCellValue(basicSheet, "B1", "Amount")
	f.SetCellValue(basicSheet, "C1", "Payment Plan")
	for i, info := range rep.Basic {
		row := i + 2
		f.SetCellValue(basicSheet, fmt.Sprintf("A%d", row), info.ID)
		f.SetCellValue(basicSheet, fmt.Sprintf("B%d", row), info.Amount)
		f.SetCellValue(basicSheet, fmt.Sprintf("C%d", row), yesNo(info.InPaymentPlan))
	}

	if _, err := f.NewSheet(extraSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetCellValue(extraSheet, "A1", "Id")
	f.SetCellValue(extraSheet, "B1", "Amount")
	f.SetCellValue(extraSheet, "C1", "Payment Plan")
	f.SetCellValue(extraSheet, "D1", "Remaining Amount")
	f.SetCellValue(extraSheet, "E1", "Next Payment Due")
	for i, info := range rep.Extra {
		row := i + 2
		f.SetCellValue(extraSheet, fmt.Sprintf("A%d", row), info.ID)
		f.SetCellValue(extraSheet, fmt.Sprintf("B%d", row), info.Amount)
		f.SetCellValue(extraSheet, fmt.Sprintf("C%d", row), yesNo(info.InPaymentPlan))
		remaining := "N/A"
		due := "N/A"
		if info.Extra != nil {
			remaining = fmt.Sprintf("%.2f", info.Extra.RemainingAmount)
			if info.Extra.NextPaymentDueDate != nil {
				due = info.Extra.NextPaymentDueDate.Format(dateLayout)
			}
		}
		f.SetCellValue(extraSheet, fmt.Sprintf("D%d", row), remaining)
		f.SetCellValue(extraSheet, fmt.Sprintf("E%d", row), due)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func init() {
	RegisterRenderer("xlsx", RendererFunc(RenderXLSX))
}
