package main

import (
	"fmt"
	"os"
	"strconv"

	"mortgagemate/internal/api"
	"mortgagemate/internal/borrowing"
	"mortgagemate/internal/config"
	"mortgagemate/internal/display"
	"mortgagemate/internal/logging"
	"mortgagemate/internal/tui"
)

const version = "0.1.0"

var activeProfile string

func main() {
	args := os.Args[1:]

	// Parse global flags first (--profile)
	args = parseGlobalFlags(args)

	cfg, err := config.Load(activeProfile)
	if err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
	if err := logging.Initialize(logging.Config{
		Path:  cfg.LogPath(),
		Level: cfg.LogLevel,
	}); err != nil {
		display.Warn(fmt.Sprintf("diagnostics log unavailable: %v", err))
	}
	defer logging.Close()

	// No args → launch interactive mode (default)
	if len(args) == 0 {
		if err := tui.Run(version, activeProfile); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	// Explicit -i flag also launches interactive mode
	if args[0] == "-i" || args[0] == "--interactive" || args[0] == "interactive" {
		if err := tui.Run(version, activeProfile); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	switch args[0] {
	case "estimate":
		err = cmdEstimate(args[1:])
	case "schemes":
		err = cmdSchemes(args[1:])
	case "set":
		err = cmdSet(args[1:])
	case "config":
		err = cmdConfig()
	case "profiles":
		err = cmdProfiles()
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("mortgagemate %s\n", version)
	default:
		display.Error(fmt.Sprintf("Unknown command: %s", args[0]))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
}

// ─── estimate ───────────────────────────────────────────────────────────────

func cmdEstimate(args []string) error {
	req, err := parseEstimateFlags(args)
	if err != nil {
		return err
	}

	if req.GrossIncome <= 0 {
		printEstimateUsage()
		return nil
	}

	res, err := borrowing.Assess(req)
	if err != nil {
		return err
	}

	display.Header("Borrowing Power Estimate")
	display.Info("Total income:", display.Money(res.TotalIncome)+"/yr")
	display.Info("Income after tax:", display.Money(res.IncomeAfterTax)+"/yr")
	if res.HecsRepayment > 0 {
		display.Info("HECS repayment:", display.Money(res.HecsRepayment)+"/yr")
	}
	display.Info("Total expenses:", display.Money(res.TotalExpenses)+"/yr")
	if res.StatedLivingExpenses < res.HemBenchmark {
		display.Info("Living expenses:", fmt.Sprintf("floored at benchmark %s/yr", display.Money(res.HemBenchmark)))
	}
	display.Info("Net income:", display.Money(res.NetIncome)+"/yr")
	fmt.Println()

	if res.BorrowingPower <= 0 {
		display.Warn("Expenses exceed income at these numbers, so there is no borrowing capacity.")
		return nil
	}

	display.Success(fmt.Sprintf("You could borrow around %s%s%s",
		display.Bold, display.Money(res.BorrowingPower), display.Reset))
	display.Info("Repayments:", fmt.Sprintf("%s/month over %d years at %s",
		display.Money(res.MonthlyRepayment), req.LoanTerm, display.Percent(req.InterestRate)))
	fmt.Println()

	return nil
}

func parseEstimateFlags(args []string) (api.EstimateRequest, error) {
	req := api.EstimateRequest{
		IncomeFrequency: "yearly",
		BorrowingType:   "Individual",
		LoanPurpose:     "Owner-occupied",
		LoanTerm:        30,
		InterestRate:    5.5,
	}

	takeValue := func(i *int) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", args[*i])
		}
		*i++
		return args[*i], nil
	}
	parseFloat := func(i *int) (float64, error) {
		raw, err := takeValue(i)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q for %s", raw, args[*i-1])
		}
		return v, nil
	}

	var err error
	rateSet := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--income":
			req.GrossIncome, err = parseFloat(&i)
		case "--frequency":
			req.IncomeFrequency, err = takeValue(&i)
		case "--other-income":
			req.OtherIncome, err = parseFloat(&i)
		case "--partner-income":
			req.SecondPersonIncome, err = parseFloat(&i)
		case "--rental-income":
			req.RentalIncome, err = parseFloat(&i)
		case "--type":
			req.BorrowingType, err = takeValue(&i)
		case "--purpose":
			req.LoanPurpose, err = takeValue(&i)
		case "--dependents":
			var v float64
			v, err = parseFloat(&i)
			req.Dependents = int(v)
		case "--living":
			req.LivingExpenses, err = parseFloat(&i)
		case "--rent":
			req.RentBoard, err = parseFloat(&i)
		case "--repayments":
			req.LoanRepayment, err = parseFloat(&i)
		case "--cc-limits":
			req.CreditCardLimits, err = parseFloat(&i)
		case "--hecs":
			req.HasHecs = true
		case "--term":
			var v float64
			v, err = parseFloat(&i)
			req.LoanTerm = int(v)
		case "--rate":
			req.InterestRate, err = parseFloat(&i)
			rateSet = true
		default:
			err = fmt.Errorf("unknown flag: %s", args[i])
		}
		if err != nil {
			return api.EstimateRequest{}, err
		}
	}

	// Secondary incomes follow the primary frequency unless one was given.
	// Resolved after the loop so flag order does not matter.
	if req.OtherIncome != 0 && req.OtherIncomeFrequency == "" {
		req.OtherIncomeFrequency = req.IncomeFrequency
	}
	if req.SecondPersonIncome != 0 && req.SecondPersonIncomeFrequency == "" {
		req.SecondPersonIncomeFrequency = req.IncomeFrequency
	}

	// Investor loans price higher unless a rate was given explicitly.
	if req.LoanPurpose == "Investor" && !rateSet {
		req.InterestRate = 5.8
	}

	return req, nil
}

func printEstimateUsage() {
	fmt.Println("Usage: mortgagemate estimate --income <amount> [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --income <n>          Gross income (required)")
	fmt.Println("  --frequency <f>       weekly | monthly | yearly (default: yearly)")
	fmt.Println("  --other-income <n>    Additional income")
	fmt.Println("  --partner-income <n>  Second applicant's income")
	fmt.Println("  --rental-income <n>   Weekly rental income")
	fmt.Println("  --type <t>            Individual | Couple (default: Individual)")
	fmt.Println("  --purpose <p>         Owner-occupied | Investor")
	fmt.Println("  --dependents <n>      Number of dependents")
	fmt.Println("  --living <n>          Monthly living expenses")
	fmt.Println("  --rent <n>            Monthly rent or board")
	fmt.Println("  --repayments <n>      Monthly repayments on existing loans")
	fmt.Println("  --cc-limits <n>       Total credit card limits")
	fmt.Println("  --hecs                Borrower has a HECS debt")
	fmt.Println("  --term <n>            Loan term in years (default: 30)")
	fmt.Println("  --rate <n>            Interest rate % (default: 5.5)")
	fmt.Println()
	fmt.Println("Example:")
	fmt.Println(`  mortgagemate estimate --income 7000 --frequency monthly --type Couple --living 2500`)
}

// ─── schemes ────────────────────────────────────────────────────────────────

func cmdSchemes(args []string) error {
	firstTimeBuyer := false
	loanPurpose := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--first-home-buyer":
			firstTimeBuyer = true
		case "--purpose":
			if i+1 >= len(args) {
				return fmt.Errorf("--purpose requires a value")
			}
			i++
			loanPurpose = args[i]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := api.NewClient(cfg)
	schemes, err := client.Schemes(firstTimeBuyer, loanPurpose)
	if err != nil {
		return fmt.Errorf("loading schemes: %w", err)
	}

	display.Header(fmt.Sprintf("Government Schemes (%d)", len(schemes)))

	if len(schemes) == 0 {
		display.Warn("No matching schemes found.")
		return nil
	}

	for _, s := range schemes {
		fmt.Printf("\n  %s%s%s\n", display.Bold, s.Name, display.Reset)
		fmt.Printf("    %s%s%s\n", display.Dim, s.Offer, display.Reset)
		for _, req := range s.EligibilityRequirements {
			fmt.Printf("    %s %s\n", display.RequirementLabel(req.Met), req.Text)
		}
	}
	fmt.Println()

	return nil
}

// ─── set ────────────────────────────────────────────────────────────────────

func cmdSet(args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: mortgagemate set <key> <value>")
		fmt.Println()
		fmt.Println("Keys:")
		fmt.Println("  server     Assistant backend URL (e.g. http://localhost:8000)")
		fmt.Println("  interval   Reply reveal pace in milliseconds")
		fmt.Println("  logfile    Diagnostics log path")
		fmt.Println("  loglevel   debug | info | warn | error")
		return nil
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	key, value := args[0], args[1]

	switch key {
	case "server":
		cfg.Server = value
	case "interval":
		ms, err := strconv.Atoi(value)
		if err != nil || ms <= 0 {
			return fmt.Errorf("interval must be a positive number of milliseconds, got %q", value)
		}
		cfg.StreamIntervalMS = ms
	case "logfile":
		cfg.LogFile = value
	case "loglevel":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown config key: %s (valid: server, interval, logfile, loglevel)", key)
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	display.Success(fmt.Sprintf("%s set to %s", key, value))
	return nil
}

// ─── config ─────────────────────────────────────────────────────────────────

func cmdConfig() error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	display.Header("Mortgage Mate Configuration")

	display.Info("Profile:", config.ProfileName(activeProfile))
	display.Info("Server:", cfg.Server)
	display.Info("Stream interval:", cfg.StreamInterval().String())
	display.Info("Log file:", cfg.LogPath())

	level := cfg.LogLevel
	if level == "" {
		level = display.Dim + "info (default)" + display.Reset
	}
	display.Info("Log level:", level)
	fmt.Println()

	return nil
}

// ─── profiles ───────────────────────────────────────────────────────────────

func cmdProfiles() error {
	profiles, err := config.ListProfiles()
	if err != nil {
		return err
	}

	display.Header(fmt.Sprintf("Profiles (%d)", len(profiles)))

	if len(profiles) == 0 {
		display.Warn("No profiles found.")
		return nil
	}

	for _, p := range profiles {
		marker := " "
		if p == config.ProfileName(activeProfile) {
			marker = display.Green + "●" + display.Reset
		}
		fmt.Printf("  %s %s\n", marker, p)
	}
	fmt.Println()

	return nil
}

// ─── helpers ────────────────────────────────────────────────────────────────

func parseGlobalFlags(args []string) []string {
	var remaining []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--profile" {
			if i+1 < len(args) {
				i++
				activeProfile = args[i]
			}
			continue
		}
		remaining = append(remaining, args[i])
	}
	return remaining
}

// ─── usage ──────────────────────────────────────────────────────────────────

func printUsage() {
	fmt.Printf(`%sMortgage Mate%s v%s - home loan borrowing assistant

%sUsage:%s
  mortgagemate                                       Launch interactive mode (default)
  mortgagemate [--profile <name>] <command> [args]   Run a specific command

%sCommands:%s
  estimate --income <n> [options]  Estimate borrowing power from the command line
  schemes [--first-home-buyer]     List government schemes (requires a server)
  set <key> <value>                Update configuration
  config                           Show current configuration
  profiles                         List config profiles
  version                          Print the version

%sSettings:%s
  set server <url>          Assistant backend URL
  set interval <ms>         Reply reveal pace
  set logfile <path>        Diagnostics log path
  set loglevel <level>      debug | info | warn | error

%sExamples:%s
  mortgagemate                                       # Start chatting
  mortgagemate estimate --income 7000 --frequency monthly --type Couple
  mortgagemate estimate --income 120000 --hecs --dependents 2 --living 3000
  mortgagemate --profile work set server http://mortgage.internal:8000

`, display.Bold, display.Reset, version,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset)
}
