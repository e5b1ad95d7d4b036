package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(context.Background(), DefaultPolicy)
	require.NoError(t, err)
	return e
}

func TestDefaultPolicyAllowsOrdinaryCalls(t *testing.T) {
	e := newTestEngine(t)

	decision, err := e.Evaluate(context.Background(), DialInput{
		PhoneNumber: "+15555550100",
		Amount:      89.99,
		MaxAmount:   5000,
		Company:     "Acme Telecom",
	})
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestDefaultPolicyBlocksEmptyNumber(t *testing.T) {
	e := newTestEngine(t)

	decision, err := e.Evaluate(context.Background(), DialInput{PhoneNumber: ""})
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)
}

func TestDefaultPolicyBlocksPremiumPrefixes(t *testing.T) {
	e := newTestEngine(t)

	for _, number := range []string{"+19005551234", "19005551234", "+1976555000", "9005551234"} {
		decision, err := e.Evaluate(context.Background(), DialInput{PhoneNumber: number, MaxAmount: 5000})
		require.NoError(t, err)
		assert.Equal(t, DecisionBlock, decision, "number %s should be blocked", number)
	}
}

func TestDefaultPolicyBlocksOversizedDisputes(t *testing.T) {
	e := newTestEngine(t)

	decision, err := e.Evaluate(context.Background(), DialInput{
		PhoneNumber: "+15555550100",
		Amount:      9000,
		MaxAmount:   5000,
	})
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)

	// A zero ceiling disables the amount rule.
	decision, err = e.Evaluate(context.Background(), DialInput{
		PhoneNumber: "+15555550100",
		Amount:      9000,
		MaxAmount:   0,
	})
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestNewEngineRejectsBadPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package dial_policy\n\ndecision {")
	assert.Error(t, err)
}
