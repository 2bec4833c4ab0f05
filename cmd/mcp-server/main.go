package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/jtracey93/spond-payment-reporting/internal/config"
	"github.com/jtracey93/spond-payment-reporting/pkg/report"
	"github.com/jtracey93/spond-payment-reporting/pkg/spond"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	_ = godotenv.Load()

	// Credentials come from the environment or the saved config file; there
	// is no terminal to prompt on when running under an MCP host.
	store, err := config.NewStore()
	if err != nil {
		log.Fatalf("failed to locate config: %v", err)
	}

	cfg, err := store.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	creds := config.Resolve("", "", cfg)
	if !creds.Complete() {
		log.Fatalf("%s and %s are required (environment or %s)",
			config.EnvBearerToken, config.EnvClubID, store.Path())
	}

	client, err := spond.NewClientWithCredentials(creds.BearerToken, creds.ClubID)
	if err != nil {
		log.Fatalf("failed to initialize Spond client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	// Fetch the dataset once; every tool call is a pure read over it
	ds, err := fetchDataset(ctx, client)
	if err != nil {
		log.Fatalf("failed to fetch club data: %v", err)
	}

	impl := &mcp.Implementation{
		Name:    "spond-payment-reporting",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	registerTools(server, ds)

	// Run server over stdio transport
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// fetchDataset pulls members and all payment details into memory
func fetchDataset(ctx context.Context, client *spond.Client) (*dataset, error) {
	members, err := client.Members.List(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := client.Payments.List(ctx)
	if err != nil {
		return nil, err
	}

	memberMap := spond.MemberNameMap(members)

	collector := &report.Collector{
		Details: client.Payments,
		Members: memberMap,
	}

	rep, err := collector.Collect(ctx, payments)
	if err != nil {
		return nil, err
	}

	return &dataset{report: rep, members: memberMap}, nil
}

func registerTools(server *mcp.Server, ds *dataset) {
	tools := &spondTools{ds: ds}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_member_payment_summary",
		Description: "Get the outstanding payment summary for a specific club member. Matches the member name case-insensitively and returns total owed, the number of outstanding items and a per-payment-title breakdown.",
	}, tools.GetMemberPaymentSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_all_outstanding_payments",
		Description: "List all outstanding payments for the club, optionally filtered by a payment title substring, capped at a result limit.",
	}, tools.GetAllOutstandingPayments)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_payment_statistics",
		Description: "Get aggregate statistics about outstanding payments: item count, total amount owed, unique members with debt, and per-payment-title counts and sums.",
	}, tools.GetPaymentStatistics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_members",
		Description: "Search club members by name (case-insensitive substring match).",
	}, tools.SearchMembers)
}
