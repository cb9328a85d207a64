package form

import (
	"encoding/json"
	"strings"
	"testing"

	"mortgagemate/internal/chat"
)

func TestApplyCoercion(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		kind    chat.InputKind
		wantErr bool
		check   func(t *testing.T, f *Form)
	}{
		{
			name:  "numeric keeps digits and one decimal point",
			field: "grossIncome",
			value: "$7,000.50",
			kind:  chat.InputText,
			check: func(t *testing.T, f *Form) {
				if got := f.values["grossIncome"]; got != "7000.50" {
					t.Errorf("grossIncome = %q, want 7000.50", got)
				}
			},
		},
		{
			name:  "numeric from decoded float",
			field: "livingExpenses",
			value: float64(2500),
			kind:  chat.InputText,
			check: func(t *testing.T, f *Form) {
				if got := f.values["livingExpenses"]; got != "2500" {
					t.Errorf("livingExpenses = %q, want 2500", got)
				}
			},
		},
		{
			name:  "boolean from action payload",
			field: "hasHecs",
			value: true,
			kind:  chat.InputRadio,
			check: func(t *testing.T, f *Form) {
				if !f.flags["hasHecs"] {
					t.Error("hasHecs not set")
				}
			},
		},
		{
			name:  "boolean parsed from text",
			field: "isFirstTimeBuyer",
			value: "yes",
			kind:  chat.InputRadio,
			check: func(t *testing.T, f *Form) {
				if !f.flags["isFirstTimeBuyer"] {
					t.Error("isFirstTimeBuyer not set")
				}
			},
		},
		{
			name:  "choice is case-insensitive and canonicalized",
			field: "borrowingType",
			value: "couple",
			kind:  chat.InputText,
			check: func(t *testing.T, f *Form) {
				if got := f.values["borrowingType"]; got != "Couple" {
					t.Errorf("borrowingType = %q, want Couple", got)
				}
			},
		},
		{
			name:    "unknown field rejected",
			field:   "favouriteColour",
			value:   "blue",
			kind:    chat.InputText,
			wantErr: true,
		},
		{
			name:    "out-of-set choice rejected",
			field:   "loanPurpose",
			value:   "Holiday house",
			kind:    chat.InputText,
			wantErr: true,
		},
		{
			name:    "non-numeric text rejected for numeric field",
			field:   "age",
			value:   "forty",
			kind:    chat.InputText,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			err := f.Apply(tt.field, tt.value, tt.kind)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Apply succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			tt.check(t, f)
		})
	}
}

func TestLoanPurposeSeedsInterestRate(t *testing.T) {
	tests := []struct {
		purpose  string
		wantRate string
	}{
		{"Investor", "5.8"},
		{"Owner-occupied", "5.5"},
	}
	for _, tt := range tests {
		t.Run(tt.purpose, func(t *testing.T) {
			f := New()
			if err := f.Apply("loanPurpose", tt.purpose, chat.InputText); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got := f.values["interestRate"]; got != tt.wantRate {
				t.Errorf("interestRate = %q, want %q", got, tt.wantRate)
			}
		})
	}
}

func TestLoanPurposeOverridesManualRate(t *testing.T) {
	f := New()
	if err := f.Apply("interestRate", "6.2", chat.InputText); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := f.Apply("loanPurpose", "Investor", chat.InputText); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := f.values["interestRate"]; got != "5.8" {
		t.Errorf("interestRate = %q after purpose change, want 5.8", got)
	}
}

func TestContextSnapshot(t *testing.T) {
	f := New()
	if got := f.Context(); got != "" {
		t.Errorf("Context() on fresh form = %q, want empty", got)
	}

	must := func(field string, value any, kind chat.InputKind) {
		t.Helper()
		if err := f.Apply(field, value, kind); err != nil {
			t.Fatalf("Apply(%s): %v", field, err)
		}
	}
	must("grossIncome", "7000", chat.InputText)
	must("hasHecs", true, chat.InputRadio)

	var snap map[string]any
	if err := json.Unmarshal([]byte(f.Context()), &snap); err != nil {
		t.Fatalf("Context() is not JSON: %v", err)
	}
	if snap["grossIncome"] != "7000" {
		t.Errorf("context grossIncome = %v", snap["grossIncome"])
	}
	if snap["hasHecs"] != true {
		t.Errorf("context hasHecs = %v", snap["hasHecs"])
	}
	if _, present := snap["loanTerm"]; present {
		t.Error("untouched default leaked into context")
	}
}

func TestMissingRequiredFields(t *testing.T) {
	f := New()
	want := []string{"grossIncome", "borrowingType", "loanPurpose"}
	if got := f.Missing(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Missing() = %v, want %v", got, want)
	}

	if err := f.Apply("grossIncome", "7000", chat.InputText); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := f.Missing(); len(got) != 2 || got[0] != "borrowingType" {
		t.Errorf("Missing() after gross income = %v", got)
	}

	if err := f.Apply("borrowingType", "Individual", chat.InputText); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := f.Apply("loanPurpose", "Owner-occupied", chat.InputText); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := f.Missing(); got != nil {
		t.Errorf("Missing() with all required set = %v, want nil", got)
	}
}

func TestEstimateRequestConversion(t *testing.T) {
	f := New()
	must := func(field string, value any) {
		t.Helper()
		if err := f.Apply(field, value, chat.InputText); err != nil {
			t.Fatalf("Apply(%s): %v", field, err)
		}
	}
	must("grossIncome", "7000")
	must("incomeFrequency", "monthly")
	must("borrowingType", "Couple")
	must("loanPurpose", "Owner-occupied")
	must("dependents", "2")
	must("livingExpenses", "2500")
	must("creditCardLimits", "10000")

	req, err := f.EstimateRequest()
	if err != nil {
		t.Fatalf("EstimateRequest: %v", err)
	}
	if req.GrossIncome != 7000 || req.IncomeFrequency != "monthly" {
		t.Errorf("income = %v %s", req.GrossIncome, req.IncomeFrequency)
	}
	if req.BorrowingType != "Couple" || req.Dependents != 2 {
		t.Errorf("household = %s %d", req.BorrowingType, req.Dependents)
	}
	if req.InterestRate != 5.5 {
		t.Errorf("interestRate = %v, want the owner-occupier seed 5.5", req.InterestRate)
	}
	if req.LoanTerm != 30 {
		t.Errorf("loanTerm = %d, want the 30-year default", req.LoanTerm)
	}
}

func TestEstimateRequestRequiresGate(t *testing.T) {
	f := New()
	if _, err := f.EstimateRequest(); err == nil {
		t.Fatal("EstimateRequest succeeded with required fields missing")
	}
}

func TestSnapshotAndClear(t *testing.T) {
	f := New()
	if err := f.Apply("hasHecs", true, chat.InputRadio); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := f.Apply("grossIncome", "7000", chat.InputText); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	entries := f.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("Snapshot() = %v, want 2 entries", entries)
	}
	if entries[0].Field != "grossIncome" || entries[0].Value != "7000" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Field != "hasHecs" || entries[1].Value != "Yes" {
		t.Errorf("entry 1 = %+v", entries[1])
	}

	f.Clear()
	if len(f.Snapshot()) != 0 {
		t.Error("Snapshot() not empty after Clear")
	}
	if got := f.Context(); got != "" {
		t.Errorf("Context() = %q after Clear, want empty", got)
	}
}
