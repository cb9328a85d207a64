package api

import (
	"encoding/json"
	"fmt"
)

// ChatRequest is one outbound user message; Context carries a JSON
// snapshot of the populated form fields.
type ChatRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// Action is a structured instruction embedded in a reply. Payload stays
// loosely typed; the dispatcher interprets known kinds and forwards the
// rest untouched.
type Action struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// ChatReply is the assistant's answer to one ChatRequest.
type ChatReply struct {
	Response string   `json:"response"`
	Actions  []Action `json:"actions,omitempty"`
}

// EstimateRequest mirrors the borrower form. Amount fields are annual,
// monthly, or weekly depending on the matching frequency field.
type EstimateRequest struct {
	IsFirstTimeBuyer bool   `json:"isFirstTimeBuyer"`
	LoanPurpose      string `json:"loanPurpose"`
	BorrowingType    string `json:"borrowingType"`
	Age              int    `json:"age,omitempty"`
	Dependents       int    `json:"dependents"`
	EmploymentType   string `json:"employmentType,omitempty"`

	GrossIncome                      float64 `json:"grossIncome"`
	IncomeFrequency                  string  `json:"incomeFrequency"`
	OtherIncome                      float64 `json:"otherIncome,omitempty"`
	OtherIncomeFrequency             string  `json:"otherIncomeFrequency,omitempty"`
	SecondPersonIncome               float64 `json:"secondPersonIncome,omitempty"`
	SecondPersonIncomeFrequency      string  `json:"secondPersonIncomeFrequency,omitempty"`
	SecondPersonOtherIncome          float64 `json:"secondPersonOtherIncome,omitempty"`
	SecondPersonOtherIncomeFrequency string  `json:"secondPersonOtherIncomeFrequency,omitempty"`
	RentalIncome                     float64 `json:"rentalIncome,omitempty"`

	LivingExpenses   float64 `json:"livingExpenses,omitempty"`
	RentBoard        float64 `json:"rentBoard,omitempty"`
	HasHecs          bool    `json:"hasHecs"`
	CreditCardLimits float64 `json:"creditCardLimits,omitempty"`
	LoanRepayment    float64 `json:"loanRepayment,omitempty"`

	LoanTerm     int     `json:"loanTerm"`
	InterestRate float64 `json:"interestRate"`
}

// EstimateResponse is the borrowing-power figure with the indicative
// monthly repayment at that amount.
type EstimateResponse struct {
	Estimate      float64 `json:"estimate"`
	LoanRepayment float64 `json:"loan_repayment"`
	Summary       string  `json:"summary,omitempty"`
}

// SchemeRequirement is one eligibility line. On the wire it is a
// two-element array: ["requirement text", met].
type SchemeRequirement struct {
	Text string
	Met  bool
}

func (r SchemeRequirement) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.Text, r.Met})
}

func (r *SchemeRequirement) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("scheme requirement is not a pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &r.Text); err != nil {
		return fmt.Errorf("scheme requirement text: %w", err)
	}
	if err := json.Unmarshal(pair[1], &r.Met); err != nil {
		return fmt.Errorf("scheme requirement flag: %w", err)
	}
	return nil
}

// GovernmentScheme describes one assistance scheme and how the borrower
// measures against its eligibility lines.
type GovernmentScheme struct {
	Name                    string              `json:"name"`
	EligibilityDescription  string              `json:"eligibilityDescription"`
	Offer                   string              `json:"offer"`
	EligibilityRequirements []SchemeRequirement `json:"eligibilityRequirements"`
}

type SchemesResponse struct {
	Schemes []GovernmentScheme `json:"schemes"`
}
