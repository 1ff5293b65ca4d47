package services

import (
	"bytes"
	"context"
	"fmt"

	"salestrack/internal/domain/sale"

	"github.com/xuri/excelize/v2"
)

// ExportService renders the filtered sales table to a spreadsheet. The
// same filter the table view uses drives the export, so what you see is
// what you download.
type ExportService struct {
	sales *SaleService
}

func NewExportService(sales *SaleService) *ExportService {
	return &ExportService{sales: sales}
}

var exportHeader = []string{
	"Agent", "Customer Tax ID", "Phone", "Status", "Sale Date",
	"Installation Date", "Period", "Type", "Payment", "Ticket",
	"Work Order", "Speed", "Region", "Notes",
}

const exportDateLayout = "2006-01-02"

// SalesWorkbook builds an xlsx with one sheet holding the filtered rows.
func (s *ExportService) SalesWorkbook(ctx context.Context, filter sale.Filter) ([]byte, error) {
	rows, err := s.sales.AllRows(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		installation := ""
		if row.InstallationDate.Valid {
			installation = row.InstallationDate.Time.Format(exportDateLayout)
		}
		values := []interface{}{
			row.AgentName,
			row.CustomerTaxID,
			row.CustomerPhone,
			row.Status,
			row.SaleDate.Format(exportDateLayout),
			installation,
			row.Period,
			row.SaleType,
			row.PaymentMethod,
			row.Ticket,
			row.WorkOrder,
			row.Speed,
			row.Region,
			row.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
