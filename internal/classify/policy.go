// Package classify is the campaign eligibility engine. Classification
// is a pure function over a normalized record, a policy, and a
// reference time: no side effects, deterministic, safe to call from
// tests or concurrently. The runner owns all mutable run state.
package classify

import (
	"fmt"
	"strings"

	"github.com/jaredtewodros/recallBridge/internal/domain"
)

// Policy names one of the selectable eligibility rule sets.
type Policy string

const (
	// PolicySingle is the single-touch list sender with opt-in gating.
	PolicySingle Policy = "single"
	// PolicyTwoTouch is the two-touch T1/T2 follow-up pipeline.
	PolicyTwoTouch Policy = "twotouch"
	// PolicyClickFollowup is the legacy click-triggered 3-state follow-up.
	PolicyClickFollowup Policy = "followup"
)

func (p Policy) String() string { return string(p) }

func (p Policy) IsValid() bool {
	switch p {
	case PolicySingle, PolicyTwoTouch, PolicyClickFollowup:
		return true
	}
	return false
}

func ParsePolicyFromString(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: invalid policy %q", domain.ErrValidation, s)
	}
	return p, nil
}
