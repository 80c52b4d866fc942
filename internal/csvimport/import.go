package csvimport

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/tkhsyuki/salies-list/internal/company"
)

// DefaultBatchSize is how many rows go to the store per upsert call.
const DefaultBatchSize = 500

// Upserter is the slice of the company repository the importer needs.
type Upserter interface {
	UpsertBatch(batch []company.Row) (int, error)
}

type Importer struct {
	store     Upserter
	batchSize int
}

func NewImporter(store Upserter, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{store: store, batchSize: batchSize}
}

// Import submits rows to the store in strictly sequential batches.
// The first failing batch aborts the remainder; the returned count is
// the rows accepted by the batches that completed, and the error
// names the failing batch alongside the store's message. No retries.
func (imp *Importer) Import(rows []company.Row) (int, error) {
	total := 0
	for start := 0; start < len(rows); start += imp.batchSize {
		end := start + imp.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := imp.store.UpsertBatch(rows[start:end])
		if err != nil {
			return total, errors.Wrapf(err, "batch %d failed", start/imp.batchSize+1)
		}
		total += n
	}
	return total, nil
}

var lineBreakRe = regexp.MustCompile(`\r\n|\n`)

// ParseCSV parses a whole uploaded document: first line is the
// header, blank lines are skipped, every data line goes through the
// normalizer.
func ParseCSV(text string) []company.Row {
	lines := lineBreakRe.Split(text, -1)
	if len(lines) == 0 {
		return nil
	}
	headers := ParseLine(lines[0])
	rows := make([]company.Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, NormalizeRow(headers, ParseLine(line)))
	}
	return rows
}

// ImportCSV is the whole pipeline: parse, normalize, batched upsert.
func (imp *Importer) ImportCSV(text string) (int, error) {
	return imp.Import(ParseCSV(text))
}
