package report

import (
	"context"
	"fmt"

	"github.com/jtracey93/spond-payment-reporting/pkg/spond"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PaymentDetailFetcher fetches a single payment's recipients. Satisfied by
// spond.PaymentService.
type PaymentDetailFetcher interface {
	Get(ctx context.Context, paymentID string) (*spond.PaymentDetails, error)
}

// Collector flattens unpaid recipient entries across payments into a Report
type Collector struct {
	Details PaymentDetailFetcher
	Members map[string]string
	Filter  TitleFilter
	Logger  spond.Logger
}

// Collect walks the payment list, fetches details for payments passing the
// title filter and flattens their unpaid recipients into granular rows.
// A single payment failing its detail fetch is logged and skipped; an
// authentication failure aborts the run.
func (c *Collector) Collect(ctx context.Context, payments []*spond.Payment) (*Report, error) {
	r := &Report{
		Stats: Stats{
			TotalPayments: len(payments),
			Filters:       c.Filter,
		},
	}

	for _, payment := range payments {
		title := payment.Title
		if title == "" {
			title = "Unnamed Payment"
		}

		if !c.Filter.Matches(title) {
			r.Stats.FilteredOut++
			continue
		}

		details, err := c.Details.Get(ctx, payment.ID)
		if err != nil {
			if spond.IsAuthError(err) {
				return nil, errors.Wrapf(err, "fetching payment %q", title)
			}
			r.Stats.Skipped++
			if c.Logger != nil {
				c.Logger.Warn("Skipping payment after failed detail fetch", "payment", title, "error", err)
			}
			continue
		}

		r.Stats.Processed++

		unpaid := 0
		for _, recipient := range details.Recipients {
			if !recipient.Unpaid() {
				continue
			}
			unpaid++

			name, ok := c.Members[recipient.MemberID]
			if !ok {
				name = fmt.Sprintf("Unknown (%s)", recipient.MemberID)
			}

			currency := recipient.Currency
			if currency == "" {
				currency = spond.DefaultCurrency
			}

			r.Rows = append(r.Rows, Row{
				MemberName:  name,
				MemberID:    recipient.MemberID,
				PaymentName: title,
				PaymentID:   payment.ID,
				Amount:      decimal.New(recipient.AmountMinorUnits(), -2),
				Currency:    currency,
				Status:      recipient.Status,
			})
		}

		if unpaid > 0 {
			r.Stats.PaymentsWithUnpaid++
			if c.Logger != nil {
				c.Logger.Info("Payment has unpaid recipients", "payment", title, "unpaid", unpaid)
			}
		}
	}

	r.Stats.UnpaidItems = len(r.Rows)
	return r, nil
}
