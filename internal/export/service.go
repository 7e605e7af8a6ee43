package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	"github.com/MrJamesThe3rd/shankh/internal/ledger"
	"github.com/MrJamesThe3rd/shankh/internal/lot"
)

var (
	ErrUnknownTable  = errors.New("unknown export table")
	ErrUnknownFormat = errors.New("unknown export format")
)

type Table string

const (
	TableDaybook  Table = "day_book"
	TablePayments Table = "client_ledger"
	TableLots     Table = "lot"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv"
}

type DaybookLister interface {
	List(ctx context.Context, filter daybook.ListFilter) ([]*daybook.Entry, error)
}

type PaymentLister interface {
	List(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Payment, error)
}

type LotLister interface {
	List(ctx context.Context, filter lot.ListFilter) ([]*lot.Lot, error)
}

// Service writes whole tables as CSV or XLSX.
type Service struct {
	daybook  DaybookLister
	payments PaymentLister
	lots     LotLister
	now      func() time.Time
}

func NewService(daybook DaybookLister, payments PaymentLister, lots LotLister) *Service {
	return &Service{daybook: daybook, payments: payments, lots: lots, now: time.Now}
}

// sheet is a table rendered to cells. The first row is the header.
type sheet struct {
	name string
	rows [][]any
}

// Filename names a download, e.g. day_book-20240105-1a2b3c4d.csv.
func (s *Service) Filename(table Table, format Format) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s.%s", table, s.now().Format("20060102"), suffix, format)
}

// Export writes every row of table to w in the given format.
func (s *Service) Export(ctx context.Context, table Table, format Format, w io.Writer) error {
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	sh, err := s.load(ctx, table)
	if err != nil {
		return err
	}

	if format == FormatXLSX {
		return writeXLSX(w, sh)
	}

	return writeCSV(w, sh)
}

func (s *Service) load(ctx context.Context, table Table) (*sheet, error) {
	switch table {
	case TableDaybook:
		entries, err := s.daybook.List(ctx, daybook.ListFilter{})
		if err != nil {
			return nil, fmt.Errorf("listing day book: %w", err)
		}

		return daybookSheet(entries), nil
	case TablePayments:
		payments, err := s.payments.List(ctx, ledger.ListFilter{})
		if err != nil {
			return nil, fmt.Errorf("listing payments: %w", err)
		}

		return paymentSheet(payments), nil
	case TableLots:
		lots, err := s.lots.List(ctx, lot.ListFilter{})
		if err != nil {
			return nil, fmt.Errorf("listing lots: %w", err)
		}

		return lotSheet(lots), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

func daybookSheet(entries []*daybook.Entry) *sheet {
	sh := &sheet{
		name: "Day Book",
		rows: [][]any{{"transaction_id", "transaction_date", "transaction_type", "amount", "description", "lot_id", "reference", "balance_after_transaction"}},
	}

	for _, e := range entries {
		sh.rows = append(sh.rows, []any{
			e.ID, day(e.Date), string(e.Type), e.Amount.StringFixed(2), e.Description, optionalID(e.LotID), e.Reference, nullMoney(e.BalanceAfter),
		})
	}

	return sh
}

func paymentSheet(payments []*ledger.Payment) *sheet {
	sh := &sheet{
		name: "Payments",
		rows: [][]any{{"payment_id", "lot_id", "client_id", "payment_date", "amount_paid", "payment_method", "total_amount_due", "balance_remaining", "payment_status", "invoice_number", "notes"}},
	}

	for _, p := range payments {
		sh.rows = append(sh.rows, []any{
			p.ID, p.LotID, p.ClientID, day(p.PaymentDate), p.AmountPaid.StringFixed(2), p.PaymentMethod,
			nullMoney(p.TotalDue), nullMoney(p.BalanceRemaining), string(p.Status), p.InvoiceNumber, p.Notes,
		})
	}

	return sh
}

func lotSheet(lots []*lot.Lot) *sheet {
	sh := &sheet{
		name: "Lots",
		rows: [][]any{{"lot_id", "order_id", "status", "start_date", "end_date", "total_cost", "progress_percent", "current_stage", "notes"}},
	}

	for _, l := range lots {
		sh.rows = append(sh.rows, []any{
			l.ID, l.OrderID, string(l.Status), optionalDay(l.StartDate), optionalDay(l.EndDate), nullMoney(l.TotalCost),
			l.ProgressPercent, l.CurrentStage, l.Notes,
		})
	}

	return sh
}

func writeCSV(w io.Writer, sh *sheet) error {
	cw := csv.NewWriter(w)

	for _, row := range sh.rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func writeXLSX(w io.Writer, sh *sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sh.name); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving cell: %w", err)
		}

		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}

	return nil
}

func day(t time.Time) string {
	return t.Format(time.DateOnly)
}

func optionalDay(t *time.Time) string {
	if t == nil {
		return ""
	}

	return day(*t)
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}

	return fmt.Sprint(*id)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}

	return d.Decimal.StringFixed(2)
}
