package daybookcsv

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountTyped is one unsigned amount column plus a transaction_type column holding debit or credit.
	amountTyped amountMode = iota
	// amountSplit is separate debit and credit columns, as bank statements lay them out.
	amountSplit
)

// Profile describes one column layout the importer accepts. Header names are matched case-insensitively.
type Profile struct {
	Name         string
	DateCol      string
	DescCol      string
	ReferenceCol string
	LotCol       string
	AmountMode   amountMode
	TypeCol      string // amountTyped
	AmountCol    string // amountTyped
	DebitCol     string // amountSplit
	CreditCol    string // amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol}

	switch p.AmountMode {
	case amountTyped:
		cols = append(cols, p.TypeCol, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DescCol, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order; the first whose required columns all appear in one row wins.
var profiles = []Profile{
	{
		Name:         "day book",
		DateCol:      "date",
		DescCol:      "description",
		ReferenceCol: "reference",
		LotCol:       "lot_id",
		AmountMode:   amountTyped,
		TypeCol:      "transaction_type",
		AmountCol:    "amount",
	},
	{
		Name:         "bank statement",
		DateCol:      "date",
		DescCol:      "description",
		ReferenceCol: "reference",
		AmountMode:   amountSplit,
		DebitCol:     "debit",
		CreditCol:    "credit",
	},
}
