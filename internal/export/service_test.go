package export

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	"github.com/MrJamesThe3rd/shankh/internal/ledger"
	"github.com/MrJamesThe3rd/shankh/internal/lot"
)

type fakeDaybook struct {
	entries []*daybook.Entry
	err     error
}

func (f *fakeDaybook) List(context.Context, daybook.ListFilter) ([]*daybook.Entry, error) {
	return f.entries, f.err
}

type fakePayments struct{ payments []*ledger.Payment }

func (f *fakePayments) List(context.Context, ledger.ListFilter) ([]*ledger.Payment, error) {
	return f.payments, nil
}

type fakeLots struct{ lots []*lot.Lot }

func (f *fakeLots) List(context.Context, lot.ListFilter) ([]*lot.Lot, error) {
	return f.lots, nil
}

func newTestService() *Service {
	lotID := int64(7)
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	return NewService(
		&fakeDaybook{entries: []*daybook.Entry{
			{ID: 1, Date: day, Type: daybook.TypeCredit, Amount: decimal.NewFromInt(100), Description: "advance, lot 7", LotID: &lotID,
				BalanceAfter: decimal.NewNullDecimal(decimal.NewFromInt(100))},
			{ID: 2, Date: day, Type: daybook.TypeDebit, Amount: decimal.RequireFromString("30.5"),
				BalanceAfter: decimal.NewNullDecimal(decimal.RequireFromString("69.5"))},
		}},
		&fakePayments{payments: []*ledger.Payment{
			{ID: 3, LotID: 7, ClientID: 1, PaymentDate: day, AmountPaid: decimal.NewFromInt(150), Status: ledger.StatusPartial,
				TotalDue: decimal.NewNullDecimal(decimal.NewFromInt(270)), BalanceRemaining: decimal.NewNullDecimal(decimal.NewFromInt(120)),
				InvoiceNumber: "INV-7-2024"},
		}},
		&fakeLots{lots: []*lot.Lot{
			{ID: 7, OrderID: 2, Status: lot.StatusInProgress, StartDate: &day, ProgressPercent: 42},
		}},
	)
}

func TestService_Export_CSV(t *testing.T) {
	var buf bytes.Buffer

	err := newTestService().Export(context.Background(), TableDaybook, FormatCSV, &buf)
	require.NoError(t, err)

	want := "transaction_id,transaction_date,transaction_type,amount,description,lot_id,reference,balance_after_transaction\n" +
		"1,2024-01-05,Credit,100.00,\"advance, lot 7\",7,,100.00\n" +
		"2,2024-01-05,Debit,30.50,,,,69.50\n"
	assert.Equal(t, want, buf.String())
}

func TestService_Export_XLSX(t *testing.T) {
	tests := []struct {
		table    Table
		sheet    string
		wantRows [][]string
	}{
		{
			table: TablePayments,
			sheet: "Payments",
			wantRows: [][]string{
				{"payment_id", "lot_id", "client_id", "payment_date", "amount_paid", "payment_method", "total_amount_due", "balance_remaining", "payment_status", "invoice_number", "notes"},
				{"3", "7", "1", "2024-01-05", "150.00", "", "270.00", "120.00", "Partial", "INV-7-2024"},
			},
		},
		{
			table: TableLots,
			sheet: "Lots",
			wantRows: [][]string{
				{"lot_id", "order_id", "status", "start_date", "end_date", "total_cost", "progress_percent", "current_stage", "notes"},
				{"7", "2", "In Progress", "2024-01-05", "", "", "42"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.table), func(t *testing.T) {
			var buf bytes.Buffer

			require.NoError(t, newTestService().Export(context.Background(), tt.table, FormatXLSX, &buf))

			f, err := excelize.OpenReader(&buf)
			require.NoError(t, err)

			defer f.Close()

			rows, err := f.GetRows(tt.sheet)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestService_Export_Errors(t *testing.T) {
	svc := newTestService()

	err := svc.Export(context.Background(), "worker", FormatCSV, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownTable)

	err = svc.Export(context.Background(), TableLots, "pdf", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	svc.daybook = &fakeDaybook{err: errors.New("db down")}
	err = svc.Export(context.Background(), TableDaybook, FormatCSV, &bytes.Buffer{})
	assert.ErrorContains(t, err, "listing day book: db down")
}

func TestService_Filename(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }

	assert.Regexp(t, regexp.MustCompile(`^day_book-20240309-[0-9a-f]{8}\.xlsx$`), svc.Filename(TableDaybook, FormatXLSX))
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}
