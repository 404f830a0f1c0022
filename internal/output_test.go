package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func sampleReport() Report {
	dueDate := date("2021-02-01")
	return Report{
		Basic: []DebtInfo{
			{ID: 0, Amount: 123.46, InPaymentPlan: true},
			{ID: 4, Amount: 9238.02, InPaymentPlan: false},
		},
		Extra: []DebtInfo{
			{ID: 0, Amount: 123.46, InPaymentPlan: true, Extra: &DebtExtra{RemainingAmount: 20.959999999999994, NextPaymentDueDate: &dueDate}},
			{ID: 4, Amount: 9238.02, InPaymentPlan: false, Extra: &DebtExtra{RemainingAmount: 9238.02}},
		},
	}
}

func TestRendererRegistry(t *testing.T) {
	for _, name := range []string{"table", "json", "xlsx"} {
		if _, err := GetRenderer(name); err != nil {
			t.Errorf("renderer %q not registered: %v", name, err)
		}
	}
	if _, err := GetRenderer("csv"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestRenderTables(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTables(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Id", "Amount", "Payment Plan", "Remaining Amount", "Next Payment Due",
		"123.46", "9238.02", "20.96", "2021-02-01", "yes", "no",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	// Debt 4 has no plan and keeps its full principal; its due date is N/A.
	if !strings.Contains(out, "N/A") {
		t.Errorf("table output missing N/A placeholder:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got JSONReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if len(got.Basic) != 2 || len(got.Extra) != 2 {
		t.Fatalf("unexpected row counts: %d/%d", len(got.Basic), len(got.Extra))
	}
	if got.Basic[0].Amount != 123.46 || !got.Basic[0].InPaymentPlan {
		t.Errorf("unexpected basic row: %+v", got.Basic[0])
	}
	if got.Extra[0].RemainingAmount != 20.959999999999994 {
		t.Errorf("remaining amount lost precision: %v", got.Extra[0].RemainingAmount)
	}
	if got.Extra[0].NextPaymentDueDate == nil || *got.Extra[0].NextPaymentDueDate != "2021-02-01" {
		t.Errorf("unexpected due date: %v", got.Extra[0].NextPaymentDueDate)
	}
	if got.Extra[1].NextPaymentDueDate != nil {
		t.Errorf("debt without plan must have null due date, got %v", *got.Extra[1].NextPaymentDueDate)
	}
}

func TestRenderJSONEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderJSON(&buf, Report{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	// Two empty lists, not nulls.
	if strings.Contains(out, "null") {
		t.Errorf("empty report must serialize as empty lists:\n%s", out)
	}
	var got JSONReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Basic == nil || got.Extra == nil || len(got.Basic) != 0 || len(got.Extra) != 0 {
		t.Errorf("unexpected empty report: %+v", got)
	}
}

func TestRenderJSONRoundTripsDueDate(t *testing.T) {
	dueDate := time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)
	rep := Report{Extra: []DebtInfo{{ID: 0, Amount: 1, InPaymentPlan: true,
		Extra: &DebtExtra{RemainingAmount: 1, NextPaymentDueDate: &dueDate}}}}

	var buf bytes.Buffer
	if err := RenderJSON(&buf, rep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"next_payment_due_date": "2021-02-01"`) {
		t.Errorf("due date not rendered as plain date:\n%s", buf.String())
	}
}
