// Package export renders report data as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"xpense/internal/core"
)

// Summary is the data behind one CSV export: the window, its grand
// total, and the daily and per-category breakdowns.
type Summary struct {
	From       time.Time
	To         time.Time
	Total      core.Money
	Daily      []core.DailyTotal
	Categories []core.CategoryTotal
}

// WriteSummary writes the summary as a three-section CSV. Amounts are
// currency units with two decimals.
func WriteSummary(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"section", "key", "value"},
		{"range", "from", s.From.Format("2006-01-02")},
		{"range", "to", s.To.Format("2006-01-02")},
		{"range", "total", formatUnits(s.Total)},
	}
	for _, d := range s.Daily {
		rows = append(rows, []string{"daily", d.Day, formatUnits(d.Total)})
	}
	for _, c := range s.Categories {
		rows = append(rows, []string{"category", c.Category, formatUnits(c.Total)})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatUnits(m core.Money) string {
	return fmt.Sprintf("%.2f", m.Units())
}
