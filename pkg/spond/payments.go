package spond

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const paymentsEndpoint = "/club/v1/payments/"

// paymentService implements the PaymentService interface
type paymentService struct {
	client *Client
}

// List retrieves all payments for the club
func (s *paymentService) List(ctx context.Context) ([]*Payment, error) {
	var payments []*Payment
	if err := s.client.execute(ctx, http.MethodGet, paymentsEndpoint, nil, &payments); err != nil {
		return nil, errors.Wrap(err, "failed to get payments")
	}
	return payments, nil
}

// Get retrieves a single payment with its recipients. Signup request
// recipients are excluded; only actual obligations matter for reporting.
func (s *paymentService) Get(ctx context.Context, paymentID string) (*PaymentDetails, error) {
	path := fmt.Sprintf("%s%s?includeSignupRequestRecipients=false", paymentsEndpoint, paymentID)

	var details PaymentDetails
	if err := s.client.execute(ctx, http.MethodGet, path, nil, &details); err != nil {
		return nil, errors.Wrapf(err, "failed to get payment %s", paymentID)
	}
	return &details, nil
}

// Export requests a CSV export for the given recipients of a payment
func (s *paymentService) Export(ctx context.Context, paymentID string, recipientIDs []string) ([]byte, error) {
	path := fmt.Sprintf("%s%s/export", paymentsEndpoint, paymentID)

	if recipientIDs == nil {
		recipientIDs = []string{}
	}

	data, err := s.client.download(ctx, http.MethodPost, path, recipientIDs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to export payment %s", paymentID)
	}
	return data, nil
}
