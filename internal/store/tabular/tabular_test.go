package tabular

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peter4652k/debttracker/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEncodeWritesCanonicalHeader(t *testing.T) {
	out, err := Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	first := strings.SplitN(string(out), "\n", 2)[0]
	want := "DATE,CUSTOMER NAME,AMOUNT OWED,BALANCE PAID,BALANCE AS OF TODAY,STATUS"
	if strings.TrimRight(first, "\r") != want {
		t.Fatalf("header = %q, want %q", first, want)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	for _, in := range []string{"", "  \n "} {
		tbl, err := Decode([]byte(in))
		if err != nil {
			t.Fatalf("decode %q: %v", in, err)
		}
		if len(tbl) != 0 {
			t.Fatalf("expected empty table, got %d rows", len(tbl))
		}
	}
}

func TestDecodeCoercesMalformedNumbers(t *testing.T) {
	in := "DATE,CUSTOMER NAME,AMOUNT OWED,BALANCE PAID,BALANCE AS OF TODAY,STATUS\n" +
		"2025-01-02 10:00:00,Alice,not-a-number,200,,whatever\n"
	tbl, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tbl) != 1 {
		t.Fatalf("expected 1 row, got %d", len(tbl))
	}
	r := tbl[0]
	if !r.AmountOwed.Equal(decimal.Zero) {
		t.Fatalf("malformed AMOUNT OWED should coerce to 0, got %s", r.AmountOwed)
	}
	if !r.BalancePaid.Equal(dec("200")) {
		t.Fatalf("BALANCE PAID = %s, want 200", r.BalancePaid)
	}
	if !r.BalanceToday.Equal(decimal.Zero) {
		t.Fatalf("missing BALANCE AS OF TODAY should coerce to 0, got %s", r.BalanceToday)
	}
}

func TestDecodeToleratesColumnOrderAndExtras(t *testing.T) {
	in := "CUSTOMER NAME,STATUS,AMOUNT OWED,NOTES,BALANCE PAID\n" +
		"Bob,Pending ⏳,500,ignored,100\n"
	tbl, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r := tbl[0]
	if r.Name != "Bob" || !r.AmountOwed.Equal(dec("500")) || !r.BalancePaid.Equal(dec("100")) {
		t.Fatalf("unexpected row: %+v", r)
	}
	if !r.Date.IsZero() {
		t.Fatalf("missing DATE should decode as zero time")
	}
}

func TestRoundTripPreservesContents(t *testing.T) {
	when, _ := time.Parse(core.DateLayout, "2025-03-04 09:30:00")
	in := core.Table{
		{
			Date:         when,
			Name:         "Alice",
			AmountOwed:   dec("1000"),
			BalancePaid:  dec("200"),
			BalanceToday: dec("800"),
			Status:       core.StatusPending,
		},
		{
			Name:         "Bob",
			AmountOwed:   dec("500"),
			BalancePaid:  dec("500"),
			BalanceToday: dec("0"),
			Status:       core.StatusCleared,
		},
	}
	encoded, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(in) {
		t.Fatalf("row count changed: %d -> %d", len(in), len(decoded))
	}
	for i := range in {
		a, b := in[i], decoded[i]
		if a.Name != b.Name || !a.Date.Equal(b.Date) || a.Status != b.Status ||
			!a.AmountOwed.Equal(b.AmountOwed) || !a.BalancePaid.Equal(b.BalancePaid) ||
			!a.BalanceToday.Equal(b.BalanceToday) {
			t.Fatalf("row %d changed: %+v -> %+v", i, a, b)
		}
	}

	// Encoding again is byte-for-byte identical.
	again, err := Encode(decoded)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(encoded, again) {
		t.Fatalf("round trip is not stable:\n%s\nvs\n%s", encoded, again)
	}
}
