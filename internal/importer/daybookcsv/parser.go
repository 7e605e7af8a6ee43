package daybookcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	enc "github.com/MrJamesThe3rd/shankh/internal/encoding"
)

var ErrNoHeader = errors.New("no day book header found: expected date, transaction_type and amount columns")

var delimiters = []rune{',', ';', '\t'}

var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

// Result is a parsed upload. Entries are in file order.
type Result struct {
	Profile string
	Charset enc.Charset
	Entries []daybook.CreateParams
}

// Parser reads day book CSV uploads. The delimiter and column layout are detected from the header row.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(raw, delim)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		entries, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
		if err != nil {
			return nil, err
		}

		return &Result{Profile: profile.Name, Charset: charset, Entries: entries}, nil
	}

	return nil, ErrNoHeader
}

func readRows(raw []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) of(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows to entries. Rows whose date cell holds no digits (blank lines, "Total" footers)
// are skipped; any other malformed row, including an unparseable date, fails the whole upload.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]daybook.CreateParams, error) {
	var entries []daybook.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		rawDate := cellValue(row, cols.of(p.DateCol))
		if !strings.ContainsAny(rawDate, "0123456789") {
			continue
		}

		date, ok := parseDate(rawDate)
		if !ok {
			return nil, fmt.Errorf("row %d: invalid date %q", rowNum, rawDate)
		}

		entry := daybook.CreateParams{
			Date:        date,
			Description: cellValue(row, cols.of(p.DescCol)),
			Reference:   cellValue(row, cols.of(p.ReferenceCol)),
		}

		var err error

		switch p.AmountMode {
		case amountTyped:
			ok, err = parseTyped(p, cols, row, &entry)
		case amountSplit:
			ok, err = parseSplit(p, cols, row, &entry)
		}

		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		if s := cellValue(row, cols.of(p.LotCol)); s != "" {
			lotID, err := strconv.ParseInt(s, 10, 64)
			if err != nil || lotID <= 0 {
				return nil, fmt.Errorf("row %d: invalid lot_id %q", rowNum, s)
			}

			entry.LotID = &lotID
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseTyped(p *Profile, cols colIndex, row []string, entry *daybook.CreateParams) (bool, error) {
	switch t := cellValue(row, cols.of(p.TypeCol)); {
	case strings.EqualFold(t, string(daybook.TypeDebit)):
		entry.Type = daybook.TypeDebit
	case strings.EqualFold(t, string(daybook.TypeCredit)):
		entry.Type = daybook.TypeCredit
	default:
		return false, fmt.Errorf("transaction_type must be debit or credit, got %q", t)
	}

	amount, err := parseAmount(cellValue(row, cols.of(p.AmountCol)))
	if err != nil {
		return false, err
	}

	if !amount.IsPositive() {
		return false, fmt.Errorf("amount must be positive, got %s", amount)
	}

	entry.Amount = amount

	return true, nil
}

// parseSplit takes the debit column when it holds a non-zero value, else the credit column.
// Rows with neither are skipped.
func parseSplit(p *Profile, cols colIndex, row []string, entry *daybook.CreateParams) (bool, error) {
	sides := []struct {
		col string
		typ daybook.Type
	}{
		{p.DebitCol, daybook.TypeDebit},
		{p.CreditCol, daybook.TypeCredit},
	}

	for _, side := range sides {
		s := cellValue(row, cols.of(side.col))
		if s == "" {
			continue
		}

		amount, err := parseAmount(s)
		if err != nil {
			return false, err
		}

		if amount.IsZero() {
			continue
		}

		entry.Type = side.typ
		entry.Amount = amount.Abs()

		return true, nil
	}

	return false, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
