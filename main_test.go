package main

import (
	"testing"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantProfile string
		wantArgs    []string
	}{
		{
			name:        "no flags",
			args:        []string{"estimate", "--income", "120000"},
			wantProfile: "",
			wantArgs:    []string{"estimate", "--income", "120000"},
		},
		{
			name:        "profile before command",
			args:        []string{"--profile", "work", "config"},
			wantProfile: "work",
			wantArgs:    []string{"config"},
		},
		{
			name:        "profile after command",
			args:        []string{"config", "--profile", "home"},
			wantProfile: "home",
			wantArgs:    []string{"config"},
		},
		{
			name:        "profile with extra args",
			args:        []string{"--profile", "work", "set", "server", "http://localhost:8000"},
			wantProfile: "work",
			wantArgs:    []string{"set", "server", "http://localhost:8000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activeProfile = ""
			got := parseGlobalFlags(tt.args)
			if activeProfile != tt.wantProfile {
				t.Errorf("activeProfile = %q, want %q", activeProfile, tt.wantProfile)
			}
			if len(got) != len(tt.wantArgs) {
				t.Errorf("remaining args = %v, want %v", got, tt.wantArgs)
				return
			}
			for i := range got {
				if got[i] != tt.wantArgs[i] {
					t.Errorf("arg[%d] = %q, want %q", i, got[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestParseEstimateFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req, err := parseEstimateFlags(nil)
		if err != nil {
			t.Fatalf("parseEstimateFlags(nil) error: %v", err)
		}
		if req.IncomeFrequency != "yearly" {
			t.Errorf("IncomeFrequency = %q, want %q", req.IncomeFrequency, "yearly")
		}
		if req.BorrowingType != "Individual" {
			t.Errorf("BorrowingType = %q, want %q", req.BorrowingType, "Individual")
		}
		if req.LoanTerm != 30 {
			t.Errorf("LoanTerm = %d, want 30", req.LoanTerm)
		}
		if req.InterestRate != 5.5 {
			t.Errorf("InterestRate = %v, want 5.5", req.InterestRate)
		}
	})

	t.Run("full flag set", func(t *testing.T) {
		req, err := parseEstimateFlags([]string{
			"--income", "7000",
			"--frequency", "monthly",
			"--partner-income", "4500",
			"--type", "Couple",
			"--dependents", "2",
			"--living", "3000",
			"--rent", "800",
			"--cc-limits", "10000",
			"--hecs",
			"--term", "25",
			"--rate", "6.1",
		})
		if err != nil {
			t.Fatalf("parseEstimateFlags error: %v", err)
		}
		if req.GrossIncome != 7000 {
			t.Errorf("GrossIncome = %v, want 7000", req.GrossIncome)
		}
		if req.IncomeFrequency != "monthly" {
			t.Errorf("IncomeFrequency = %q, want %q", req.IncomeFrequency, "monthly")
		}
		if req.SecondPersonIncome != 4500 {
			t.Errorf("SecondPersonIncome = %v, want 4500", req.SecondPersonIncome)
		}
		if req.SecondPersonIncomeFrequency != "monthly" {
			t.Errorf("SecondPersonIncomeFrequency = %q, want %q", req.SecondPersonIncomeFrequency, "monthly")
		}
		if req.BorrowingType != "Couple" {
			t.Errorf("BorrowingType = %q, want %q", req.BorrowingType, "Couple")
		}
		if req.Dependents != 2 {
			t.Errorf("Dependents = %d, want 2", req.Dependents)
		}
		if !req.HasHecs {
			t.Error("HasHecs = false, want true")
		}
		if req.LoanTerm != 25 {
			t.Errorf("LoanTerm = %d, want 25", req.LoanTerm)
		}
		if req.InterestRate != 6.1 {
			t.Errorf("InterestRate = %v, want 6.1", req.InterestRate)
		}
	})

	t.Run("secondary frequencies follow primary regardless of flag order", func(t *testing.T) {
		req, err := parseEstimateFlags([]string{
			"--other-income", "500",
			"--partner-income", "4500",
			"--frequency", "monthly",
		})
		if err != nil {
			t.Fatalf("parseEstimateFlags error: %v", err)
		}
		if req.OtherIncomeFrequency != "monthly" {
			t.Errorf("OtherIncomeFrequency = %q, want %q", req.OtherIncomeFrequency, "monthly")
		}
		if req.SecondPersonIncomeFrequency != "monthly" {
			t.Errorf("SecondPersonIncomeFrequency = %q, want %q", req.SecondPersonIncomeFrequency, "monthly")
		}
	})

	t.Run("investor purpose raises default rate", func(t *testing.T) {
		req, err := parseEstimateFlags([]string{"--income", "120000", "--purpose", "Investor"})
		if err != nil {
			t.Fatalf("parseEstimateFlags error: %v", err)
		}
		if req.InterestRate != 5.8 {
			t.Errorf("InterestRate = %v, want 5.8", req.InterestRate)
		}
	})

	t.Run("explicit rate wins over investor default", func(t *testing.T) {
		req, err := parseEstimateFlags([]string{"--income", "120000", "--purpose", "Investor", "--rate", "6.4"})
		if err != nil {
			t.Fatalf("parseEstimateFlags error: %v", err)
		}
		if req.InterestRate != 6.4 {
			t.Errorf("InterestRate = %v, want 6.4", req.InterestRate)
		}
	})

	t.Run("missing value", func(t *testing.T) {
		if _, err := parseEstimateFlags([]string{"--income"}); err == nil {
			t.Error("expected error for --income without a value")
		}
	})

	t.Run("bad number", func(t *testing.T) {
		if _, err := parseEstimateFlags([]string{"--income", "lots"}); err == nil {
			t.Error("expected error for non-numeric income")
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		if _, err := parseEstimateFlags([]string{"--bogus"}); err == nil {
			t.Error("expected error for unknown flag")
		}
	})
}
