package spond

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const membersEndpoint = "/club/v1/members"

// memberService implements the MemberService interface
type memberService struct {
	client *Client
}

// List retrieves all club members
func (s *memberService) List(ctx context.Context) ([]*Member, error) {
	var members []*Member
	if err := s.client.execute(ctx, http.MethodGet, membersEndpoint, nil, &members); err != nil {
		return nil, errors.Wrap(err, "failed to get members")
	}
	return members, nil
}
