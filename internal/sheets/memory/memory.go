// Package memory is an in-process SummaryWriter for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/sheets"
)

type Writer struct {
	mu     sync.Mutex
	writes [][]sheets.SummaryRow
}

func New() *Writer {
	return &Writer{}
}

// WriteSummary records a copy of the rows.
func (w *Writer) WriteSummary(_ context.Context, rows []sheets.SummaryRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, append([]sheets.SummaryRow(nil), rows...))
	return nil
}

// Writes returns every recorded call in order.
func (w *Writer) Writes() [][]sheets.SummaryRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]sheets.SummaryRow, len(w.writes))
	copy(out, w.writes)
	return out
}

// Last returns the most recent write, or nil.
func (w *Writer) Last() []sheets.SummaryRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.writes) == 0 {
		return nil
	}
	return w.writes[len(w.writes)-1]
}
