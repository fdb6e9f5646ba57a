// Package export re-serializes canonical records for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"repair-insights-go/internal/types"
)

// Header is the fixed column order of every export. The labels are the
// ones the shop's own sheet uses, so an export can be uploaded again.
var Header = []string{"날짜", "카테고리", "브랜드", "내용", "채널", "고객명", "전화번호", "매출", "지출", "순수익"}

const bom = "\ufeff"

// SheetName is the single sheet of an XLSX export.
const SheetName = "Sales"

func row(r types.TransactionRecord) []string {
	return []string{
		r.Date,
		r.Category,
		r.Brand,
		r.Description,
		r.SubCategory,
		r.CustomerName,
		r.Phone,
		strconv.FormatInt(r.Sales, 10),
		strconv.FormatInt(r.Cost, 10),
		strconv.FormatInt(r.NetProfit, 10),
	}
}

// WriteCSV writes a UTF-8 BOM, the header and one line per record. Values
// with commas, quotes or newlines are quoted.
func WriteCSV(w io.Writer, records []types.TransactionRecord) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same columns to a one-sheet workbook. Money columns
// are stored as numbers.
func WriteXLSX(w io.Writer, records []types.TransactionRecord) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	head := make([]interface{}, len(Header))
	for i, h := range Header {
		head[i] = h
	}
	if err := sw.SetRow("A1", head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Date, r.Category, r.Brand, r.Description, r.SubCategory,
			r.CustomerName, r.Phone, r.Sales, r.Cost, r.NetProfit,
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
