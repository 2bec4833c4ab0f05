package spond

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_List(t *testing.T) {
	// Setup
	mockTransport := new(MockTransport)
	client := newMockedClient(mockTransport)

	response := `[
		{"id": "pay-1", "title": "Match Fee 2025"},
		{"id": "pay-2", "title": "Membership", "dueDate": "2025-09-01"}
	]`

	mockTransport.On("Execute", mock.Anything, "GET", "/club/v1/payments/", nil, mock.Anything).
		Return(response, nil)

	payments, err := client.Payments.List(context.Background())

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "pay-1", payments[0].ID)
	assert.Equal(t, "Match Fee 2025", payments[0].Title)
	assert.Equal(t, "2025-09-01", payments[1].DueDate)

	mockTransport.AssertExpectations(t)
}

func TestPaymentService_Get(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockedClient(mockTransport)

	response := `{
		"id": "pay-1",
		"title": "Match Fee 2025",
		"recipients": [
			{
				"id": "rcp-1",
				"memberId": "mem-1",
				"status": "UNANSWERED",
				"currency": "GBP",
				"claims": [
					{"products": [{"price": 1000}]}
				]
			},
			{
				"id": "rcp-2",
				"memberId": "mem-2",
				"status": "ANSWERED",
				"claims": [
					{"products": [{"price": 1000}]}
				]
			}
		]
	}`

	mockTransport.On("Execute", mock.Anything, "GET",
		"/club/v1/payments/pay-1?includeSignupRequestRecipients=false", nil, mock.Anything).
		Return(response, nil)

	details, err := client.Payments.Get(context.Background(), "pay-1")

	require.NoError(t, err)
	assert.Equal(t, "Match Fee 2025", details.Title)
	require.Len(t, details.Recipients, 2)
	assert.True(t, details.Recipients[0].Unpaid())
	assert.EqualValues(t, 1000, details.Recipients[0].AmountMinorUnits())
	assert.False(t, details.Recipients[1].Unpaid())

	mockTransport.AssertExpectations(t)
}

func TestPaymentService_Get_Error(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockedClient(mockTransport)

	mockTransport.On("Execute", mock.Anything, "GET",
		"/club/v1/payments/pay-404?includeSignupRequestRecipients=false", nil, mock.Anything).
		Return(nil, ErrNotFound)

	details, err := client.Payments.Get(context.Background(), "pay-404")

	assert.Nil(t, details)
	assert.ErrorIs(t, err, ErrNotFound)

	mockTransport.AssertExpectations(t)
}

func TestPaymentService_Export(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockedClient(mockTransport)

	csv := []byte("name,amount\nAlice Archer,10.00\n")

	mockTransport.On("Download", mock.Anything, "POST", "/club/v1/payments/pay-1/export",
		mock.MatchedBy(func(body interface{}) bool {
			ids, ok := body.([]string)
			return ok && len(ids) == 2 && ids[0] == "rcp-1" && ids[1] == "rcp-2"
		})).
		Return(csv, nil)

	data, err := client.Payments.Export(context.Background(), "pay-1", []string{"rcp-1", "rcp-2"})

	require.NoError(t, err)
	assert.Equal(t, csv, data)

	mockTransport.AssertExpectations(t)
}

func TestPaymentService_Export_NilRecipientsSendsEmptyArray(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockedClient(mockTransport)

	mockTransport.On("Download", mock.Anything, "POST", "/club/v1/payments/pay-1/export",
		mock.MatchedBy(func(body interface{}) bool {
			ids, ok := body.([]string)
			return ok && len(ids) == 0
		})).
		Return([]byte{}, nil)

	_, err := client.Payments.Export(context.Background(), "pay-1", nil)

	require.NoError(t, err)
	mockTransport.AssertExpectations(t)
}

func TestRecipient_AmountMinorUnits_MissingClaims(t *testing.T) {
	r := &Recipient{Status: StatusUnanswered}
	assert.EqualValues(t, 0, r.AmountMinorUnits())

	r = &Recipient{Claims: []*Claim{{}}}
	assert.EqualValues(t, 0, r.AmountMinorUnits())
}
