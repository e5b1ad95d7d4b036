// Package policy gates outbound call placement with an OPA policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the dial policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// DialInput is the input document for a dial-policy evaluation.
type DialInput struct {
	PhoneNumber string  `json:"phone_number"`
	Amount      float64 `json:"amount"`
	MaxAmount   float64 `json:"max_amount"`
	Company     string  `json:"company"`
}

// Engine is the OPA dial-policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.dial_policy.decision"),
		rego.Module("dial_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks whether an outbound call may be placed.
// Returns DecisionAllow or DecisionBlock; the policy defines a default.
func (e *Engine) Evaluate(ctx context.Context, input DialInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy is the default dial policy: never dial without a number,
// never dial premium-rate prefixes, and keep large disputes for a human.
const DefaultPolicy = `
package dial_policy

import rego.v1

default decision := "allow"

decision := "block" if {
	input.phone_number == ""
}

decision := "block" if {
	some prefix in premium_prefixes
	startswith(trim_prefix(input.phone_number, "+"), prefix)
}

decision := "block" if {
	input.max_amount > 0
	input.amount > input.max_amount
}

premium_prefixes := ["1900", "1976", "900"]
`
