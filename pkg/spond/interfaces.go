package spond

import "context"

// AuthService resolves credentials from a Spond login. Experimental: it
// drives endpoints the club web app uses rather than a published API.
type AuthService interface {
	// Login authenticates with email and password and returns a bearer token
	Login(ctx context.Context, email, password string) (string, error)

	// Clubs lists the clubs the logged-in user can access
	Clubs(ctx context.Context) ([]*Club, error)
}

// MemberService handles member operations
type MemberService interface {
	// List retrieves all club members
	List(ctx context.Context) ([]*Member, error)
}

// PaymentService handles payment operations
type PaymentService interface {
	// List retrieves all payments for the club
	List(ctx context.Context) ([]*Payment, error)

	// Get retrieves a single payment with its recipients
	Get(ctx context.Context, paymentID string) (*PaymentDetails, error)

	// Export requests a CSV export for the given recipients of a payment
	Export(ctx context.Context, paymentID string, recipientIDs []string) ([]byte, error)
}
