package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jtracey93/spond-payment-reporting/pkg/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultResultLimit = 50

// dataset is the club data fetched once at startup
type dataset struct {
	report  *report.Report
	members map[string]string
}

// spondTools holds the cached dataset and implements all tool handlers
type spondTools struct {
	ds *dataset
}

// rowsMatching returns granular rows whose payment title contains the filter
func (t *spondTools) rowsMatching(titleFilter string) []report.Row {
	if titleFilter == "" {
		return t.ds.report.Rows
	}

	needle := strings.ToLower(titleFilter)
	var rows []report.Row
	for _, r := range t.ds.report.Rows {
		if strings.Contains(strings.ToLower(r.PaymentName), needle) {
			rows = append(rows, r)
		}
	}
	return rows
}

// PaymentTypeSummary is the per-payment-title breakdown used by two tools
type PaymentTypeSummary struct {
	Title     string `json:"title" jsonschema:"Payment title"`
	Count     int    `json:"count" jsonschema:"Number of outstanding entries"`
	TotalOwed string `json:"totalOwed" jsonschema:"Sum owed under this title"`
}

func typeSummaries(r *report.Report) []PaymentTypeSummary {
	var out []PaymentTypeSummary
	for _, t := range r.TitleTotals() {
		out = append(out, PaymentTypeSummary{
			Title:     t.Title,
			Count:     t.Count,
			TotalOwed: t.Total.StringFixed(2),
		})
	}
	return out
}

// GetMemberPaymentSummary tool - outstanding payments for one member

type GetMemberPaymentSummaryInput struct {
	MemberName string `json:"memberName" jsonschema:"Name of the member to look up (case-insensitive partial match)"`
}

type OutstandingEntry struct {
	PaymentTitle string `json:"paymentTitle" jsonschema:"Payment title"`
	Amount       string `json:"amount" jsonschema:"Amount owed"`
	Currency     string `json:"currency" jsonschema:"Currency code"`
}

type GetMemberPaymentSummaryOutput struct {
	MemberName          string               `json:"memberName" jsonschema:"Full member name"`
	TotalOwed           string               `json:"totalOwed" jsonschema:"Total amount owed"`
	OutstandingCount    int                  `json:"outstandingCount" jsonschema:"Number of outstanding entries"`
	PaymentTypes        []PaymentTypeSummary `json:"paymentTypes,omitempty" jsonschema:"Breakdown per payment title"`
	OutstandingPayments []OutstandingEntry   `json:"outstandingPayments,omitempty" jsonschema:"Individual outstanding entries"`
}

func (t *spondTools) GetMemberPaymentSummary(ctx context.Context, req *mcp.CallToolRequest, input GetMemberPaymentSummaryInput) (*mcp.CallToolResult, GetMemberPaymentSummaryOutput, error) {
	if input.MemberName == "" {
		return nil, GetMemberPaymentSummaryOutput{}, fmt.Errorf("memberName is required")
	}

	matches := t.matchMembers(input.MemberName)

	if len(matches) == 0 {
		if sample := t.memberSample(10); len(sample) > 0 {
			return nil, GetMemberPaymentSummaryOutput{}, fmt.Errorf("no members found matching %q; available members include: %s",
				input.MemberName, strings.Join(sample, ", "))
		}
		return nil, GetMemberPaymentSummaryOutput{}, fmt.Errorf("no members found matching %q", input.MemberName)
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, GetMemberPaymentSummaryOutput{}, fmt.Errorf("multiple members match %q, be more specific: %s",
			input.MemberName, strings.Join(names, ", "))
	}

	memberID := matches[0].ID
	fullName := matches[0].Name

	memberReport := &report.Report{}
	for _, row := range t.ds.report.Rows {
		if row.MemberID == memberID {
			memberReport.Rows = append(memberReport.Rows, row)
		}
	}

	out := GetMemberPaymentSummaryOutput{
		MemberName:       fullName,
		TotalOwed:        memberReport.TotalOwed().StringFixed(2),
		OutstandingCount: len(memberReport.Rows),
		PaymentTypes:     typeSummaries(memberReport),
	}

	for _, row := range memberReport.Rows {
		out.OutstandingPayments = append(out.OutstandingPayments, OutstandingEntry{
			PaymentTitle: row.PaymentName,
			Amount:       row.Amount.StringFixed(2),
			Currency:     row.Currency,
		})
	}

	return nil, out, nil
}

// GetAllOutstandingPayments tool - every unpaid entry, optionally filtered

type GetAllOutstandingPaymentsInput struct {
	TitleFilter string `json:"titleFilter,omitempty" jsonschema:"Optional payment title substring filter (e.g. 'Match Fee' or '2025')"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of results to return (default: 50)"`
}

type OutstandingPayment struct {
	MemberName   string `json:"memberName" jsonschema:"Member who owes"`
	PaymentTitle string `json:"paymentTitle" jsonschema:"Payment title"`
	Amount       string `json:"amount" jsonschema:"Amount owed"`
	Currency     string `json:"currency" jsonschema:"Currency code"`
}

type GetAllOutstandingPaymentsOutput struct {
	OutstandingPayments []OutstandingPayment `json:"outstandingPayments" jsonschema:"Outstanding payment entries"`
	Count               int                  `json:"count" jsonschema:"Number of entries returned"`
	Truncated           bool                 `json:"truncated" jsonschema:"Whether the result was cut at the limit"`
	FilterApplied       string               `json:"filterApplied,omitempty" jsonschema:"The title filter applied, if any"`
}

func (t *spondTools) GetAllOutstandingPayments(ctx context.Context, req *mcp.CallToolRequest, input GetAllOutstandingPaymentsInput) (*mcp.CallToolResult, GetAllOutstandingPaymentsOutput, error) {
	rows := t.rowsMatching(input.TitleFilter)

	limit := input.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}

	truncated := false
	if len(rows) > limit {
		rows = rows[:limit]
		truncated = true
	}

	out := GetAllOutstandingPaymentsOutput{
		Count:         len(rows),
		Truncated:     truncated,
		FilterApplied: input.TitleFilter,
	}

	for _, row := range rows {
		out.OutstandingPayments = append(out.OutstandingPayments, OutstandingPayment{
			MemberName:   row.MemberName,
			PaymentTitle: row.PaymentName,
			Amount:       row.Amount.StringFixed(2),
			Currency:     row.Currency,
		})
	}

	return nil, out, nil
}

// GetPaymentStatistics tool - aggregate statistics

type GetPaymentStatisticsInput struct {
	TitleFilter string `json:"titleFilter,omitempty" jsonschema:"Optional payment title substring filter"`
}

type GetPaymentStatisticsOutput struct {
	OutstandingCount  int                  `json:"outstandingCount" jsonschema:"Total outstanding entries"`
	TotalAmountOwed   string               `json:"totalAmountOwed" jsonschema:"Sum owed across all entries"`
	UniqueMembersOwed int                  `json:"uniqueMembersOwed" jsonschema:"Distinct members with debt"`
	PaymentTypes      []PaymentTypeSummary `json:"paymentTypes,omitempty" jsonschema:"Per-payment-title counts and sums"`
	FilterApplied     string               `json:"filterApplied,omitempty" jsonschema:"The title filter applied, if any"`
}

func (t *spondTools) GetPaymentStatistics(ctx context.Context, req *mcp.CallToolRequest, input GetPaymentStatisticsInput) (*mcp.CallToolResult, GetPaymentStatisticsOutput, error) {
	filtered := &report.Report{Rows: t.rowsMatching(input.TitleFilter)}

	out := GetPaymentStatisticsOutput{
		OutstandingCount:  len(filtered.Rows),
		TotalAmountOwed:   filtered.TotalOwed().StringFixed(2),
		UniqueMembersOwed: filtered.UniqueMembers(),
		PaymentTypes:      typeSummaries(filtered),
		FilterApplied:     input.TitleFilter,
	}

	return nil, out, nil
}

// SearchMembers tool - member lookup by name

type SearchMembersInput struct {
	Query string `json:"query" jsonschema:"Search query for member names"`
}

type MemberMatch struct {
	ID   string `json:"id" jsonschema:"Member ID"`
	Name string `json:"name" jsonschema:"Member name"`
}

type SearchMembersOutput struct {
	Query   string        `json:"query" jsonschema:"The query searched for"`
	Matches []MemberMatch `json:"matches" jsonschema:"Members whose name contains the query"`
	Count   int           `json:"count" jsonschema:"Number of matches"`
}

func (t *spondTools) SearchMembers(ctx context.Context, req *mcp.CallToolRequest, input SearchMembersInput) (*mcp.CallToolResult, SearchMembersOutput, error) {
	if input.Query == "" {
		return nil, SearchMembersOutput{}, fmt.Errorf("query is required")
	}

	matches := t.matchMembers(input.Query)

	return nil, SearchMembersOutput{
		Query:   input.Query,
		Matches: matches,
		Count:   len(matches),
	}, nil
}

// memberSample returns up to n member names, sorted, for "did you mean"
// style error messages.
func (t *spondTools) memberSample(n int) []string {
	names := make([]string, 0, len(t.ds.members))
	for _, name := range t.ds.members {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > n {
		names = names[:n]
	}
	return names
}

// matchMembers finds members whose name contains the query, sorted by name
// for stable output.
func (t *spondTools) matchMembers(query string) []MemberMatch {
	needle := strings.ToLower(query)

	var matches []MemberMatch
	for id, name := range t.ds.members {
		if strings.Contains(strings.ToLower(name), needle) {
			matches = append(matches, MemberMatch{ID: id, Name: name})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})

	return matches
}
