// Package dataset turns raw ledger exports (CSV text or an XLSX workbook)
// into canonical transaction records.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/types"
)

// DefaultLabel fills category and channel when the sheet leaves them blank.
const DefaultLabel = "Other"

var (
	// ErrNoRecords means the feed was read but produced no usable rows.
	ErrNoRecords = errors.New("dataset: no usable records")
	// ErrWorkbook means the bytes could not be opened as a spreadsheet.
	ErrWorkbook = errors.New("dataset: unreadable workbook")
)

var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("repair-insights-go/transaction"))

// RecordID derives the stable id of a transaction. Two rows sharing date,
// phone and amount collide on purpose: they are indistinguishable in the feed.
func RecordID(date, phoneKey string, sales int64) string {
	seed := date + "|" + phoneKey + "|" + strconv.FormatInt(sales, 10)
	return "tx-" + uuid.NewSHA1(recordNamespace, []byte(seed)).String()
}

type Options struct {
	// RequirePhone drops rows without any phone digits.
	RequirePhone bool
}

// Stats describes what happened to the rows of one parse.
type Stats struct {
	Rows         int               `json:"rows"`
	Kept         int               `json:"kept"`
	DroppedDate  int               `json:"dropped_date"`
	DroppedBlank int               `json:"dropped_blank"`
	DroppedPhone int               `json:"dropped_phone"`
	Columns      map[string]string `json:"columns"`
}

type Result struct {
	Records []types.TransactionRecord
	Stats   Stats
}

// Empty reports the "parsed but nothing usable" state.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// Parser is stateless after construction and safe for concurrent use.
type Parser struct {
	brands  *normalize.Brands
	columns []Column
	opts    Options
}

func NewParser(brands *normalize.Brands, opts Options) *Parser {
	return &Parser{brands: brands, columns: DefaultColumns, opts: opts}
}

// ParseCSV parses delimited text with a header row. Malformed rows are
// dropped; the call itself never fails.
func (p *Parser) ParseCSV(text string) Result {
	text = strings.TrimPrefix(text, "\ufeff")
	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				continue
			}
			break
		}
		rows = append(rows, rec)
	}
	return p.ParseRows(rows)
}

// LoadXLSX reads a workbook from disk and parses its first sheet.
func (p *Parser) LoadXLSX(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read workbook %s: %w", path, err)
	}
	return p.ParseXLSX(data)
}

// ParseXLSX reads the first sheet of a workbook.
func (p *Parser) ParseXLSX(data []byte) (Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrWorkbook, err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("%w: no sheets", ErrWorkbook)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("%w: read rows: %v", ErrWorkbook, err)
	}
	return p.ParseRows(rows), nil
}

// ParseRows runs the record pipeline over pre-split rows; the first
// non-blank row is the header. Source order is preserved.
func (p *Parser) ParseRows(rows [][]string) Result {
	res := Result{Records: []types.TransactionRecord{}}
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return res
	}
	header := rows[start]
	m := MapHeader(header, p.columns)
	res.Stats.Columns = m.Headers(header)

	for _, row := range rows[start+1:] {
		res.Stats.Rows++
		if blank(row) {
			res.Stats.DroppedBlank++
			continue
		}
		rec, reason := p.record(row, m)
		switch reason {
		case dropDate:
			res.Stats.DroppedDate++
			continue
		case dropPhone:
			res.Stats.DroppedPhone++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	res.Stats.Kept = len(res.Records)
	return res
}

type dropReason int

const (
	keep dropReason = iota
	dropDate
	dropPhone
)

func (p *Parser) record(row []string, m Mapping) (types.TransactionRecord, dropReason) {
	get := func(f Field) string {
		i, ok := m[f]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	date, ok := normalize.ExtractDate(get(FieldDate))
	if !ok {
		return types.TransactionRecord{}, dropDate
	}
	rawPhone := get(FieldPhone)
	phoneKey := normalize.PhoneKey(rawPhone)
	if p.opts.RequirePhone && phoneKey == "" {
		return types.TransactionRecord{}, dropPhone
	}

	sales := normalize.ParseCurrency(get(FieldSales))
	cost := normalize.ParseCost(get(FieldCost))
	description := normalize.CleanText(get(FieldDescription))

	brand := normalize.CleanText(get(FieldBrand))
	if brand == "" {
		// Older sheets have no brand column; the brand is usually in the description.
		brand = description
	}

	rec := types.TransactionRecord{
		Date:         date.String(),
		Year:         date.Year,
		Month:        date.Month,
		Day:          date.Day,
		Category:     orDefault(normalize.CleanText(get(FieldCategory))),
		SubCategory:  orDefault(normalize.CleanText(get(FieldSubCategory))),
		Brand:        p.brands.Canonical(brand),
		Description:  description,
		Sales:        sales,
		Cost:         cost,
		NetProfit:    types.NetProfitOf(sales, cost),
		CustomerName: normalize.CleanName(get(FieldCustomer)),
		Phone:        normalize.NormalizePhone(normalize.CleanText(rawPhone)),
	}
	rec.ID = RecordID(rec.Date, phoneKey, sales)
	return rec, keep
}

func orDefault(s string) string {
	if s == "" {
		return DefaultLabel
	}
	return s
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
