package internal

import (
	"context"
	"errors"
	"testing"
)

func testConfig() *Config {
	return &Config{
		RetryConnection: 3,
		URL: map[string]string{
			ResourceDebts:        "http://localhost/debts",
			ResourcePaymentPlans: "http://localhost/payment_plans",
			ResourcePayments:     "http://localhost/payments",
		},
		DateFormats: DefaultDateFormats,
		Tables: Tables{PaymentPlans: PaymentPlanTable{
			FrequencyToDays: map[string]int{"WEEKLY": 7, "BI_WEEKLY": 14},
		}},
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "load", want: ModeLoad},
		{in: "l", want: ModeLoad},
		{in: "generate", want: ModeGenerate},
		{in: "g", want: ModeGenerate},
		{in: "bulk", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestRunLoadMode(t *testing.T) {
	src := assessmentSource()
	r := NewRunner(src, testConfig(), date("2021-01-28"))

	rep, err := r.Run(context.Background(), ModeLoad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Basic) != 5 || len(rep.Extra) != 5 {
		t.Fatalf("expected 5 rows in each report, got %d/%d", len(rep.Basic), len(rep.Extra))
	}
	if rep.Basic[4].InPaymentPlan {
		t.Errorf("debt 4 has no plan")
	}
	if rep.Extra[0].Extra == nil || rep.Extra[0].Extra.RemainingAmount != 20.959999999999994 {
		t.Errorf("unexpected extra row: %+v", rep.Extra[0].Extra)
	}
}

func TestRunGenerateMode(t *testing.T) {
	src := assessmentSource()
	r := NewRunner(src, testConfig(), date("2021-01-28"))

	rep, err := r.Run(context.Background(), ModeGenerate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Sequential id walk stops at the first missing id; the fixture has ids 0-4.
	if len(rep.Basic) != 5 || len(rep.Extra) != 5 {
		t.Fatalf("expected 5 rows in each report, got %d/%d", len(rep.Basic), len(rep.Extra))
	}
	for i, row := range rep.Extra {
		if row.ID != i {
			t.Errorf("row %d has id %d", i, row.ID)
		}
	}
}

func TestRunGenerateModeCorruptDebt(t *testing.T) {
	src := assessmentSource()
	src.debts = append(src.debts, Debt{ID: 0, Amount: 123.46})
	r := NewRunner(src, testConfig(), date("2021-01-28"))

	_, err := r.Run(context.Background(), ModeGenerate)
	var corrupt *CorruptDataError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptDataError, got %v", err)
	}
	if got, want := err.Error(), "Corrupt debt data for debt_id '0' : multiple records"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestRunEmptyDebts(t *testing.T) {
	r := NewRunner(&fakeSource{}, testConfig(), date("2021-01-28"))

	rep, err := r.Run(context.Background(), ModeLoad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Basic) != 0 || len(rep.Extra) != 0 {
		t.Errorf("expected two empty reports, got %d/%d rows", len(rep.Basic), len(rep.Extra))
	}
}

func TestRunFailFast(t *testing.T) {
	src := assessmentSource()
	src.debts[2].Amount = nil
	r := NewRunner(src, testConfig(), date("2021-01-28"))

	rep, err := r.Run(context.Background(), ModeLoad)
	var invalid *InvalidAmountError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidAmountError, got %v", err)
	}
	if len(rep.Basic) != 0 || len(rep.Extra) != 0 {
		t.Errorf("failed runs must not keep partial results: %+v", rep)
	}
}
