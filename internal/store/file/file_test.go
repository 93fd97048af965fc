package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

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

func TestLoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.csv")
	s := New(path)

	tbl, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tbl) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(tbl))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file should have been created: %v", err)
	}
	if !strings.HasPrefix(string(data), "DATE,CUSTOMER NAME") {
		t.Fatalf("expected header-only file, got %q", data)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "customers.csv"))
	ctx := context.Background()

	in := core.Table{{
		Name:         "Alice",
		AmountOwed:   dec("1000"),
		BalancePaid:  dec("200"),
		BalanceToday: dec("800"),
		Status:       core.StatusPending,
	}}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Alice" {
		t.Fatalf("unexpected table: %+v", out)
	}
	if !out[0].BalanceToday.Equal(dec("800")) || out[0].Status != core.StatusPending {
		t.Fatalf("unexpected derived fields: %+v", out[0])
	}
}

func TestLoadRecomputesStoredBalance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.csv")
	raw := "DATE,CUSTOMER NAME,AMOUNT OWED,BALANCE PAID,BALANCE AS OF TODAY,STATUS\n" +
		",Alice,1000,200,999,Cleared ✅\n" +
		",Bob,oops,100,5,\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tbl, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Stored balance and status are discarded and rederived.
	if !tbl[0].BalanceToday.Equal(dec("800")) || tbl[0].Status != core.StatusPending {
		t.Fatalf("row 0 not recomputed: %+v", tbl[0])
	}
	// Malformed AMOUNT OWED coerces to zero, balance follows.
	if !tbl[1].AmountOwed.Equal(decimal.Zero) {
		t.Fatalf("row 1 malformed amount should be 0: %+v", tbl[1])
	}
	if !tbl[1].BalanceToday.Equal(decimal.Zero) || tbl[1].Status != core.StatusCleared {
		t.Fatalf("row 1 derived fields inconsistent: %+v", tbl[1])
	}
}
