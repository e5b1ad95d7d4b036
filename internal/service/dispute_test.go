package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billdispute/disputecall/internal/domain"
)

func billDoc() CreateDisputeInput {
	return CreateDisputeInput{
		Document:    []byte("fake-image-bytes"),
		MediaType:   "image/png",
		Description: "I was charged twice for the same month",
	}
}

func TestCreateDisputePlacesCall(t *testing.T) {
	env := newTestEnv(t)
	amount := 89.99
	env.extractor.Fields = &domain.BillFields{
		PhoneNumber:   "+15555550100",
		Company:       "Acme Telecom",
		CustomerName:  "Jordan Smith",
		AccountNumber: "ACCT-4411",
		Amount:        &amount,
	}

	result, err := env.svc.CreateDispute(context.Background(), billDoc())
	require.NoError(t, err)

	assert.True(t, result.CallInitiated)
	assert.NotEmpty(t, result.DisputeID)
	assert.NotEmpty(t, result.CallSID)
	assert.Equal(t, "Acme Telecom", result.Context.Company)
	assert.Equal(t, "I was charged twice for the same month", result.Context.Description)

	// The stored context is what webhook turns will resolve.
	dc, ok := env.contexts.Get(result.DisputeID)
	require.True(t, ok)
	assert.Equal(t, "ACCT-4411", dc.AccountNumber)

	// The call went out with the context riding the webhook URL.
	require.Len(t, env.dialer.Calls, 1)
	call := env.dialer.Calls[0]
	assert.Equal(t, "+15555550100", call.To)
	assert.Equal(t, "+15005550006", call.From)
	assert.Contains(t, call.WebhookURL, "/twiml/dispute-call?disputeId="+result.DisputeID)
	assert.Contains(t, call.WebhookURL, "data=")
	assert.Contains(t, call.StatusCallbackURL, "/webhooks/call-status")
	assert.True(t, call.Record)

	// The session is registered under the provider SID.
	session, ok := env.sessions.Get(result.CallSID)
	require.True(t, ok)
	assert.Equal(t, result.DisputeID, session.DisputeID)
	assert.Equal(t, "+15555550100", session.PhoneNumber)
}

func TestCreateDisputeValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateDispute(context.Background(), CreateDisputeInput{Description: "x"})
	assert.Error(t, err)

	_, err = env.svc.CreateDispute(context.Background(), CreateDisputeInput{Document: []byte("doc")})
	assert.Error(t, err)
}

func TestCreateDisputeWithoutPhoneNumber(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.Fields = &domain.BillFields{Company: "Acme Telecom"}

	result, err := env.svc.CreateDispute(context.Background(), billDoc())
	require.NoError(t, err)

	assert.False(t, result.CallInitiated)
	assert.Contains(t, result.Message, "No customer service number")
	assert.Empty(t, env.dialer.Calls)

	// The dispute still exists for a manual call later.
	_, ok := env.contexts.Get(result.DisputeID)
	assert.True(t, ok)
}

func TestCreateDisputeExtractionFailure(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.Err = errors.New("vision model down")

	result, err := env.svc.CreateDispute(context.Background(), billDoc())
	require.NoError(t, err)

	assert.False(t, result.CallInitiated)
	assert.Empty(t, result.Fields.Company)
	_, ok := env.contexts.Get(result.DisputeID)
	assert.True(t, ok)
}

func TestCreateDisputeBlockedByPolicy(t *testing.T) {
	env := newTestEnv(t)
	amount := 12000.0
	env.extractor.Fields = &domain.BillFields{
		PhoneNumber: "+15555550100",
		Company:     "Acme Telecom",
		Amount:      &amount,
	}

	result, err := env.svc.CreateDispute(context.Background(), billDoc())
	require.NoError(t, err)

	assert.False(t, result.CallInitiated)
	assert.Contains(t, result.Message, "human caller")
	assert.Empty(t, env.dialer.Calls)
}

func TestCreateDisputeBlockedPremiumNumber(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.Fields = &domain.BillFields{PhoneNumber: "+19005551234", Company: "Scam Co"}

	result, err := env.svc.CreateDispute(context.Background(), billDoc())
	require.NoError(t, err)
	assert.False(t, result.CallInitiated)
	assert.Empty(t, env.dialer.Calls)
}

func TestCreateDisputeDialerFailure(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.Fields = &domain.BillFields{PhoneNumber: "+15555550100", Company: "Acme"}
	env.dialer.Err = errors.New("twilio 500")

	result, err := env.svc.CreateDispute(context.Background(), billDoc())
	require.NoError(t, err)

	assert.False(t, result.CallInitiated)
	assert.Contains(t, result.Message, "could not be placed")
	assert.Empty(t, env.sessions.Active())
}
