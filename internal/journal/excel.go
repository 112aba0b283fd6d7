package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the session's orders to an Excel workbook.
func (j *Journal) ExportXLSX(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Orders"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F5496"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	headers := []string{"Time", "Strategy", "Symbol", "Side", "Type",
		"Quantity", "Price", "Stop Loss", "Take Profit", "Order ID"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	fx.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for row, e := range j.Entries() {
		values := []interface{}{
			e.Time.Format("2006-01-02 15:04:05"),
			e.Strategy,
			e.Symbol,
			e.Side,
			e.Type,
			e.Quantity,
			e.Price,
			e.StopLoss,
			e.TakeProfit,
			e.OrderID,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			fx.SetCellValue(sheet, cell, v)
		}
	}

	return fx.SaveAs(path)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
