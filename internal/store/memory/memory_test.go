package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/peter4652k/debttracker/internal/core"
)

func TestLoadNormalizesSeededTable(t *testing.T) {
	s := New()
	owed, _ := decimal.NewFromString("1000")
	paid, _ := decimal.NewFromString("400")
	stale, _ := decimal.NewFromString("999")
	s.Seed(core.Table{{Name: "Alice", AmountOwed: owed, BalancePaid: paid, BalanceToday: stale}})

	tbl, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want, _ := decimal.NewFromString("600")
	if !tbl[0].BalanceToday.Equal(want) || tbl[0].Status != core.StatusPending {
		t.Fatalf("seeded balance should be rederived on load: %+v", tbl[0])
	}
}

func TestSaveIsolatesCallerSlice(t *testing.T) {
	s := New()
	ctx := context.Background()
	tbl := core.Table{{Name: "Bob"}}
	if err := s.Save(ctx, tbl); err != nil {
		t.Fatalf("save: %v", err)
	}
	tbl[0].Name = "Mallory"

	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out[0].Name != "Bob" {
		t.Fatalf("store must copy on save, got %q", out[0].Name)
	}
}
