package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/jtracey93/spond-payment-reporting/internal/config"
	"github.com/jtracey93/spond-payment-reporting/pkg/report"
	"github.com/jtracey93/spond-payment-reporting/pkg/spond"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

const version = "1.0.0"

// Options holds the parsed command line
type Options struct {
	Output      string
	BearerToken string
	ClubID      string
	Filters     stringList
	AutoCreds   bool
	ResetConfig bool
	Verbose     bool
	ShowVersion bool
}

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ", ")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func parseFlags() *Options {
	opts := &Options{}

	flag.StringVar(&opts.Output, "o", "", "Output Excel file path (default: "+report.DefaultOutputPath+")")
	flag.StringVar(&opts.Output, "output", "", "Output Excel file path (default: "+report.DefaultOutputPath+")")
	flag.StringVar(&opts.BearerToken, "bearer-token", "", "Spond bearer token for authentication")
	flag.StringVar(&opts.ClubID, "club-id", "", "Spond club ID")
	flag.Var(&opts.Filters, "title-filter", "Filter payments by title containing this string (case-insensitive). Repeatable; all terms must match.")
	flag.BoolVar(&opts.AutoCreds, "auto-credentials", false, "Log in with email and password to obtain credentials (experimental)")
	flag.BoolVar(&opts.ResetConfig, "reset-config", false, "Delete the saved configuration")
	flag.BoolVar(&opts.Verbose, "v", false, "Enable verbose output")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose output")
	flag.BoolVar(&opts.ShowVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage: spond-report [flags]\n\n")
		fmt.Fprintf(out, "Generate outstanding-payment reports from the Spond club management system.\n\n")
		fmt.Fprintf(out, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  spond-report                                   # interactive mode with prompts\n")
		fmt.Fprintf(out, "  spond-report -o my_report.xlsx\n")
		fmt.Fprintf(out, "  spond-report --title-filter \"Match Fee\" --title-filter 2025\n")
		fmt.Fprintf(out, "  spond-report --bearer-token TOKEN --club-id ID\n")
		fmt.Fprintf(out, "  spond-report --auto-credentials                # log in with email and password\n")
	}

	flag.Parse()
	return opts
}

func main() {
	// Pick up SPOND_* variables from a local .env if present
	_ = godotenv.Load()

	os.Exit(run(parseFlags()))
}

func run(opts *Options) int {
	if opts.ShowVersion {
		fmt.Printf("spond-report %s\n", version)
		return 0
	}

	store, err := config.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.ResetConfig {
		removed, err := store.Reset()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if removed {
			fmt.Println("Configuration reset successfully")
		} else {
			fmt.Println("No configuration file found")
		}
		return 0
	}

	cfg, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config file: %v\n", err)
		cfg = &config.Config{}
	}

	creds := config.Resolve(opts.BearerToken, opts.ClubID, cfg)

	var logger spond.Logger
	if opts.Verbose {
		logger = newVerboseLogger()
		logger.Debug("Resolved credentials",
			"token_source", string(creds.TokenSource),
			"club_source", string(creds.ClubSource))
	}

	client, err := spond.NewClient(&spond.ClientOptions{
		BearerToken: creds.BearerToken,
		ClubID:      creds.ClubID,
		Logger:      logger,
		SentryDSN:   os.Getenv("SPOND_SENTRY_DSN"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer client.Close()

	ctx := context.Background()

	if opts.AutoCreds || !creds.Complete() {
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			if opts.AutoCreds {
				fmt.Fprintln(os.Stderr, "Error: --auto-credentials requires an interactive terminal")
			} else {
				fmt.Fprintln(os.Stderr, "Error: bearer token and club ID are required")
				fmt.Fprintf(os.Stderr, "Provide them via --bearer-token/--club-id, the %s/%s environment variables, or a saved config.\n",
					config.EnvBearerToken, config.EnvClubID)
			}
			return 1
		}

		fmt.Printf("Spond Payment Reporting Tool v%s\n", version)
		fmt.Println("=====================================")
		fmt.Println()

		if opts.AutoCreds {
			if err := autoCredentials(ctx, os.Stdin, client, creds); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintln(os.Stderr, "Automated login failed. You can still provide a bearer token manually via --bearer-token.")
				return 1
			}
		} else if err := promptForCredentials(os.Stdin, store, cfg, creds); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		client.SetCredentials(creds.BearerToken, creds.ClubID)
	}

	output := opts.Output
	if output == "" {
		output = report.DefaultOutputPath
	}

	return generateReport(ctx, client, report.TitleFilter(opts.Filters), output, logger, opts.Verbose)
}

// generateReport fetches members and payments, builds the report, and
// writes the workbook. Nothing is written when a fetch fails or the report
// comes back empty.
func generateReport(ctx context.Context, client *spond.Client, filter report.TitleFilter, output string, logger spond.Logger, verbose bool) int {
	fmt.Println("Fetching members...")
	members, err := client.Members.List(ctx)
	if err != nil {
		return fail(err, verbose)
	}
	fmt.Printf("Found %d members\n", len(members))

	fmt.Println("Fetching payments...")
	payments, err := client.Payments.List(ctx)
	if err != nil {
		return fail(err, verbose)
	}
	fmt.Printf("Found %d payments\n", len(payments))

	fmt.Printf("Processing %d payments...\n", len(payments))
	if !filter.Empty() {
		fmt.Printf("Filtering for payments containing ALL of: %s\n", filter)
	}

	collector := &report.Collector{
		Details: client.Payments,
		Members: spond.MemberNameMap(members),
		Filter:  filter,
		Logger:  logger,
	}

	rep, err := collector.Collect(ctx, payments)
	if err != nil {
		return fail(err, verbose)
	}

	printSummary(rep)

	if rep.Empty() {
		fmt.Println("No outstanding payments found; no workbook written.")
		return 0
	}

	if err := report.WriteWorkbook(rep, output); err != nil {
		return fail(err, verbose)
	}

	fmt.Printf("\nExcel report exported to: %s\n", output)
	fmt.Printf("Report contains %d unpaid payment records\n", len(rep.Rows))

	return 0
}

// fail prints a human-readable message for the error, with HTTP detail in
// verbose mode, and returns the exit code.
func fail(err error, verbose bool) int {
	switch {
	case errors.Is(err, spond.ErrNotAuthenticated):
		fmt.Fprintln(os.Stderr, "Error: the Spond API rejected the credentials.")
		fmt.Fprintln(os.Stderr, "Bearer tokens are short-lived. Log in at club.spond.com, copy a fresh token from the browser's developer tools, and try again.")
	case errors.Is(err, spond.ErrCredentialsMissing):
		fmt.Fprintln(os.Stderr, "Error: bearer token and club ID are required")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	if verbose {
		if apiErr, ok := spond.AsAPIError(err); ok {
			fmt.Fprintf(os.Stderr, "HTTP status: %d (endpoint %s)\n", apiErr.StatusCode, apiErr.Endpoint)
			if apiErr.Body != "" {
				fmt.Fprintf(os.Stderr, "Response body: %s\n", apiErr.Body)
			}
		}
	}

	return 1
}

func printSummary(r *report.Report) {
	fmt.Println()
	fmt.Println("--- Payment Report Summary ---")
	fmt.Printf("Found %d total payments\n", r.Stats.TotalPayments)
	if !r.Stats.Filters.Empty() {
		fmt.Printf("Filtered out %d payments not containing ALL of: %s\n", r.Stats.FilteredOut, r.Stats.Filters)
	}
	fmt.Printf("Processed %d payments\n", r.Stats.Processed)
	if r.Stats.Skipped > 0 {
		fmt.Printf("Skipped %d payments after fetch errors\n", r.Stats.Skipped)
	}
	fmt.Printf("%d payments have unpaid recipients\n", r.Stats.PaymentsWithUnpaid)
	fmt.Printf("Total unpaid items found: %d\n", r.Stats.UnpaidItems)

	totals := r.MemberTotals()
	if len(totals) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Top owing members:")
	for i, t := range totals {
		if i >= 10 {
			break
		}
		fmt.Printf("  %-30s %s %s\n", t.MemberName, t.Currency, t.Total.StringFixed(2))
	}
}
