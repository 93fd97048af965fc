// Package tabular implements the delimited wire format shared by the
// file-backed stores: a header row followed by one row per customer, with
// the canonical column set in fixed order.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peter4652k/debttracker/internal/core"
)

// Canonical column names in serialization order.
const (
	ColDate         = "DATE"
	ColCustomerName = "CUSTOMER NAME"
	ColAmountOwed   = "AMOUNT OWED"
	ColBalancePaid  = "BALANCE PAID"
	ColBalanceToday = "BALANCE AS OF TODAY"
	ColStatus       = "STATUS"
)

// Columns is the canonical column set. Encode always writes exactly these,
// in this order; Decode ignores anything else.
var Columns = []string{ColDate, ColCustomerName, ColAmountOwed, ColBalancePaid, ColBalanceToday, ColStatus}

// Header returns the header-only serialization of an empty table.
func Header() []byte {
	out, _ := Encode(nil)
	return out
}

// Encode serializes the table with a header row. Columns outside the
// canonical set never appear in the output.
func Encode(t core.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := range t {
		r := &t[i]
		row := []string{
			formatDate(r.Date),
			r.Name,
			r.AmountOwed.String(),
			r.BalancePaid.String(),
			r.BalanceToday.String(),
			string(r.Status),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses serialized table data. Columns are matched by header name,
// so column order in the input does not matter. Missing numeric columns and
// cells that fail to parse become zero rather than errors. Decode does not
// rederive balances; callers run core.Table.Normalize afterwards.
func Decode(data []byte) (core.Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Table{}, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	if len(rows) == 0 {
		return core.Table{}, nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	table := make(core.Table, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		table = append(table, core.CustomerRecord{
			Date:         parseDate(cell(ColDate)),
			Name:         cell(ColCustomerName),
			AmountOwed:   parseAmount(cell(ColAmountOwed)),
			BalancePaid:  parseAmount(cell(ColBalancePaid)),
			BalanceToday: parseAmount(cell(ColBalanceToday)),
			Status:       core.Status(cell(ColStatus)),
		})
	}
	return table, nil
}

// parseAmount coerces a numeric cell. Malformed input becomes zero; this is
// the intended normalization on load, not a failure.
func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(core.DateLayout)
}
