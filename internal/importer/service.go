package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	"github.com/MrJamesThe3rd/shankh/internal/importer/daybookcsv"
)

// ErrInvalidFile marks uploads that could not be parsed. Nothing from them was stored.
var ErrInvalidFile = errors.New("invalid day book csv")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=importer
type Parser interface {
	Parse(r io.Reader) (*daybookcsv.Result, error)
}

// Recorder stores a batch of day book entries atomically, chaining each in order.
type Recorder interface {
	CreateBatch(ctx context.Context, params []daybook.CreateParams) ([]*daybook.Entry, error)
}

// Summary reports what an upload produced.
type Summary struct {
	Profile  string
	Charset  string
	Imported int
	FirstID  int64
	LastID   int64
}

type Service struct {
	parser   Parser
	recorder Recorder
}

func NewService(parser Parser, recorder Recorder) *Service {
	return &Service{parser: parser, recorder: recorder}
}

// ImportDaybook parses a CSV upload and records every row in file order. Nothing is stored if any row is
// malformed or any write fails.
func (s *Service) ImportDaybook(ctx context.Context, r io.Reader) (*Summary, error) {
	parsed, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	summary := &Summary{Profile: parsed.Profile, Charset: string(parsed.Charset)}

	if len(parsed.Entries) == 0 {
		return summary, nil
	}

	entries, err := s.recorder.CreateBatch(ctx, parsed.Entries)
	if err != nil {
		return nil, fmt.Errorf("recording day book entries: %w", err)
	}

	summary.Imported = len(entries)
	summary.FirstID = entries[0].ID
	summary.LastID = entries[len(entries)-1].ID

	slog.Info("day book csv imported",
		"profile", summary.Profile,
		"charset", summary.Charset,
		"rows", summary.Imported,
	)

	return summary, nil
}
