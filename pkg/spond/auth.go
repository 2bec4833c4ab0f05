package spond

import (
	"context"

	"github.com/jtracey93/spond-payment-reporting/internal/auth"
	internalTypes "github.com/jtracey93/spond-payment-reporting/internal/types"
)

// Club is one club membership returned after login
type Club = internalTypes.Club

// authService implements the AuthService interface
type authService struct {
	client  *Client
	service *auth.Service
}

// newAuthService creates a new auth service
func newAuthService(client *Client) *authService {
	return &authService{
		client: client,
		service: auth.NewService(
			client.baseURL,
			client.httpClient,
			client.options.Logger,
		),
	}
}

// Login authenticates with email and password. On success the client's
// transport switches to the new bearer token, and the token is returned so
// callers can persist it.
func (a *authService) Login(ctx context.Context, email, password string) (string, error) {
	token, err := a.service.Login(ctx, email, password)
	if err != nil {
		return "", err
	}

	a.client.transport.SetAuth(token)
	return token, nil
}

// Clubs lists the clubs the logged-in user can access
func (a *authService) Clubs(ctx context.Context) ([]*Club, error) {
	return a.service.Clubs(ctx)
}
