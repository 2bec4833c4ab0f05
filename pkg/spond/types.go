package spond

import "strings"

// Recipient status values the API reports. UNANSWERED means the member has
// not paid; anything else counts as settled.
const (
	StatusUnanswered = "UNANSWERED"
	StatusAnswered   = "ANSWERED"
)

// DefaultCurrency is assumed when a recipient carries no currency
const DefaultCurrency = "GBP"

// Member is a club member
type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// DisplayName returns the member's name, falling back to first/last name
func (m *Member) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Payment is a billing campaign as returned by the payment list
type Payment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// PaymentDetails is a payment with its recipient obligations
type PaymentDetails struct {
	Payment
	Recipients []*Recipient `json:"recipients"`
}

// Recipient is a per-member obligation under a payment
type Recipient struct {
	ID       string   `json:"id"`
	MemberID string   `json:"memberId"`
	Status   string   `json:"status"`
	Currency string   `json:"currency,omitempty"`
	Claims   []*Claim `json:"claims,omitempty"`
}

// Claim groups the products a recipient is charged for
type Claim struct {
	Products []*Product `json:"products,omitempty"`
}

// Product carries the price in the currency's minor unit (pence for GBP)
type Product struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Price int64  `json:"price"`
}

// Unpaid reports whether the recipient still owes the payment
func (r *Recipient) Unpaid() bool {
	return r.Status == StatusUnanswered
}

// AmountMinorUnits returns the amount owed in minor units, following the
// claims[0].products[0].price path the club web app reads.
func (r *Recipient) AmountMinorUnits() int64 {
	if len(r.Claims) == 0 || len(r.Claims[0].Products) == 0 {
		return 0
	}
	return r.Claims[0].Products[0].Price
}

// MemberNameMap builds a member ID to display name mapping
func MemberNameMap(members []*Member) map[string]string {
	m := make(map[string]string, len(members))
	for _, member := range members {
		if member.ID == "" {
			continue
		}
		if name := member.DisplayName(); name != "" {
			m[member.ID] = name
		}
	}
	return m
}
