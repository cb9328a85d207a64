// Package form holds the home-loan form state the assistant fills in
// through field-update actions.
package form

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"mortgagemate/internal/api"
	"mortgagemate/internal/chat"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindNumeric
	kindChoice
	kindBool
)

type fieldSpec struct {
	kind    fieldKind
	label   string
	choices []string
}

// registry is the full field set. Numeric fields keep the entered text;
// boolean fields are stored as bools.
var registry = map[string]fieldSpec{
	"isFirstTimeBuyer": {kind: kindBool, label: "First home buyer"},
	"loanPurpose":      {kind: kindChoice, label: "Loan purpose", choices: []string{"Owner-occupied", "Investor"}},
	"borrowingType":    {kind: kindChoice, label: "Borrowing type", choices: []string{"Individual", "Couple"}},
	"age":              {kind: kindNumeric, label: "Age"},
	"dependents":       {kind: kindNumeric, label: "Dependents"},
	"employmentType":   {kind: kindChoice, label: "Employment type", choices: []string{"Full-time", "Part-time", "Casual", "Self-employed"}},

	"grossIncome":                 {kind: kindNumeric, label: "Gross income"},
	"incomeFrequency":             {kind: kindChoice, label: "Income frequency", choices: []string{"weekly", "monthly", "yearly"}},
	"otherIncome":                 {kind: kindNumeric, label: "Other income"},
	"otherIncomeFrequency":        {kind: kindChoice, label: "Other income frequency", choices: []string{"weekly", "monthly", "yearly"}},
	"secondPersonIncome":               {kind: kindNumeric, label: "Second person income"},
	"secondPersonIncomeFrequency":      {kind: kindChoice, label: "Second person income frequency", choices: []string{"weekly", "monthly", "yearly"}},
	"secondPersonOtherIncome":          {kind: kindNumeric, label: "Second person other income"},
	"secondPersonOtherIncomeFrequency": {kind: kindChoice, label: "Second person other income frequency", choices: []string{"weekly", "monthly", "yearly"}},
	"rentalIncome":                     {kind: kindNumeric, label: "Rental income (weekly)"},

	"livingExpenses":   {kind: kindNumeric, label: "Living expenses (monthly)"},
	"rentBoard":        {kind: kindNumeric, label: "Rent or board (monthly)"},
	"hasHecs":          {kind: kindBool, label: "HECS debt"},
	"creditCardLimits": {kind: kindNumeric, label: "Credit card limits"},
	"loanRepayment":    {kind: kindNumeric, label: "Existing loan repayments (monthly)"},

	"loanTerm":     {kind: kindNumeric, label: "Loan term (years)"},
	"interestRate": {kind: kindNumeric, label: "Interest rate (%)"},
}

// requiredFields gates the estimate.
var requiredFields = []string{"grossIncome", "borrowingType", "loanPurpose"}

// Form is safe for concurrent use; the chat session applies updates from
// its dispatch path while the host reads snapshots.
type Form struct {
	mu      sync.Mutex
	values  map[string]string
	flags   map[string]bool
	touched map[string]bool
}

func New() *Form {
	f := &Form{
		values:  make(map[string]string),
		flags:   make(map[string]bool),
		touched: make(map[string]bool),
	}
	f.values["incomeFrequency"] = "monthly"
	f.values["otherIncomeFrequency"] = "monthly"
	f.values["secondPersonIncomeFrequency"] = "monthly"
	f.values["secondPersonOtherIncomeFrequency"] = "monthly"
	f.values["loanTerm"] = "30"
	return f
}

// Apply is the single update path for both user edits and assistant
// field-update actions. The value may arrive as a string, bool, or
// float64 depending on how the action payload decoded.
func (f *Form) Apply(field string, value any, kind chat.InputKind) error {
	spec, ok := registry[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch spec.kind {
	case kindBool:
		b, err := coerceBool(value, kind)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		f.flags[field] = b
	case kindNumeric:
		s, err := coerceNumeric(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		f.values[field] = s
	case kindChoice:
		s, err := coerceString(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		if len(spec.choices) > 0 && !matchChoice(spec.choices, s) {
			return fmt.Errorf("field %s: %q is not one of %s", field, s, strings.Join(spec.choices, ", "))
		}
		f.values[field] = canonicalChoice(spec.choices, s)
	default:
		s, err := coerceString(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		f.values[field] = s
	}
	f.touched[field] = true

	// Changing the purpose re-seeds the indicative rate, matching the
	// investor/owner-occupier pricing split.
	if field == "loanPurpose" {
		switch f.values["loanPurpose"] {
		case "Investor":
			f.values["interestRate"] = "5.8"
		case "Owner-occupied":
			f.values["interestRate"] = "5.5"
		}
		f.touched["interestRate"] = true
	}
	return nil
}

func coerceBool(value any, kind chat.InputKind) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0":
			return false, nil
		}
		return false, fmt.Errorf("cannot parse %q as a yes/no value", v)
	default:
		return false, fmt.Errorf("unsupported value type %T", value)
	}
}

// coerceNumeric keeps digits and a single decimal point, matching how
// the form treats typed amounts.
func coerceNumeric(value any) (string, error) {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case string:
		var b strings.Builder
		seenDot := false
		for _, r := range v {
			switch {
			case r >= '0' && r <= '9':
				b.WriteRune(r)
			case r == '.' && !seenDot:
				seenDot = true
				b.WriteRune(r)
			}
		}
		out := b.String()
		if out == "" || out == "." {
			return "", fmt.Errorf("no numeric content in %q", v)
		}
		return out, nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

func coerceString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", fmt.Errorf("empty value")
		}
		return s, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

func matchChoice(choices []string, s string) bool {
	for _, c := range choices {
		if strings.EqualFold(c, s) {
			return true
		}
	}
	return false
}

func canonicalChoice(choices []string, s string) string {
	for _, c := range choices {
		if strings.EqualFold(c, s) {
			return c
		}
	}
	return s
}

// Context returns a JSON snapshot of the populated fields. It is sent
// alongside every outbound message so replies can reference the form.
func (f *Form) Context() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := make(map[string]any)
	for field := range f.touched {
		if spec := registry[field]; spec.kind == kindBool {
			snap[field] = f.flags[field]
		} else {
			snap[field] = f.values[field]
		}
	}
	if len(snap) == 0 {
		return ""
	}
	out, err := json.Marshal(snap)
	if err != nil {
		return ""
	}
	return string(out)
}

// Missing reports the required fields still unset, in registry order.
func (f *Form) Missing() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var missing []string
	for _, field := range requiredFields {
		if !f.touched[field] || f.values[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// EstimateRequest converts the form into a typed request. It fails when
// a required field is absent.
func (f *Form) EstimateRequest() (api.EstimateRequest, error) {
	if missing := f.Missing(); len(missing) > 0 {
		return api.EstimateRequest{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	req := api.EstimateRequest{
		IsFirstTimeBuyer: f.flags["isFirstTimeBuyer"],
		LoanPurpose:      f.values["loanPurpose"],
		BorrowingType:    f.values["borrowingType"],
		EmploymentType:   f.values["employmentType"],
		HasHecs:          f.flags["hasHecs"],

		IncomeFrequency:                  orDefault(f.values["incomeFrequency"], "monthly"),
		OtherIncomeFrequency:             orDefault(f.values["otherIncomeFrequency"], "monthly"),
		SecondPersonIncomeFrequency:      orDefault(f.values["secondPersonIncomeFrequency"], "monthly"),
		SecondPersonOtherIncomeFrequency: orDefault(f.values["secondPersonOtherIncomeFrequency"], "monthly"),
	}

	var err error
	parse := func(field string) float64 {
		raw := f.values[field]
		if raw == "" {
			return 0
		}
		v, perr := strconv.ParseFloat(raw, 64)
		if perr != nil && err == nil {
			err = fmt.Errorf("field %s: %w", field, perr)
		}
		return v
	}

	req.Age = int(parse("age"))
	req.Dependents = int(parse("dependents"))
	req.GrossIncome = parse("grossIncome")
	req.OtherIncome = parse("otherIncome")
	req.SecondPersonIncome = parse("secondPersonIncome")
	req.SecondPersonOtherIncome = parse("secondPersonOtherIncome")
	req.RentalIncome = parse("rentalIncome")
	req.LivingExpenses = parse("livingExpenses")
	req.RentBoard = parse("rentBoard")
	req.CreditCardLimits = parse("creditCardLimits")
	req.LoanRepayment = parse("loanRepayment")
	req.LoanTerm = int(parse("loanTerm"))
	req.InterestRate = parse("interestRate")
	if err != nil {
		return api.EstimateRequest{}, err
	}
	if req.LoanTerm <= 0 {
		req.LoanTerm = 30
	}
	return req, nil
}

// Value returns the stored text for a field, empty when unset.
func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Bool returns the stored flag for a boolean field.
func (f *Form) Bool(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flags[field]
}

// Entry is one populated field for display.
type Entry struct {
	Field string
	Label string
	Value string
}

// Snapshot lists the populated fields sorted by name.
func (f *Form) Snapshot() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()

	fields := make([]string, 0, len(f.touched))
	for field := range f.touched {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	entries := make([]Entry, 0, len(fields))
	for _, field := range fields {
		spec := registry[field]
		var value string
		if spec.kind == kindBool {
			value = "No"
			if f.flags[field] {
				value = "Yes"
			}
		} else {
			value = f.values[field]
		}
		entries = append(entries, Entry{Field: field, Label: spec.label, Value: value})
	}
	return entries
}

// Clear resets the form to its defaults.
func (f *Form) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	fresh := New()
	f.values = fresh.values
	f.flags = fresh.flags
	f.touched = fresh.touched
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
