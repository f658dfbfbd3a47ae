package dto

import (
	"github.com/pkg/errors"

	"github.com/laundryos/washstack/internal/enum"
)

// CallClassification is the structured judgment produced by the LLM for one
// transcript. Immutable after creation.
type CallClassification struct {
	Category             enum.CallCategory  `json:"category"`
	Severity             enum.CallSeverity  `json:"severity"`
	RequiresTechnician   bool               `json:"requiresTechnician"`
	ClientMood           enum.ClientMood    `json:"clientMood"`
	MachineImpact        enum.MachineImpact `json:"machineImpact"`
	Summary              string             `json:"summary"`
	RecommendedActions   []string           `json:"recommendedActions"`
	EstimatedRevenueLoss float64            `json:"estimatedRevenueLoss"`
}

// Validate rejects completions missing required fields. A classification with
// holes is a handler failure, never silently defaulted.
func (c *CallClassification) Validate() error {
	switch c.Category {
	case enum.CallInformationRequest, enum.CallTechnicalIssue, enum.CallCriticalIncident, enum.CallPaymentTerminal:
	default:
		return errors.Errorf("invalid category %q", c.Category)
	}

	switch c.Severity {
	case enum.SeverityNormal, enum.SeverityMedium, enum.SeverityUrgent, enum.SeverityCritical:
	default:
		return errors.Errorf("invalid severity %q", c.Severity)
	}

	switch c.ClientMood {
	case enum.MoodCalm, enum.MoodFrustrated, enum.MoodAngry:
	default:
		return errors.Errorf("invalid client mood %q", c.ClientMood)
	}

	switch c.MachineImpact {
	case enum.ImpactSingleMachine, enum.ImpactMultipleMachines:
	default:
		return errors.Errorf("invalid machine impact %q", c.MachineImpact)
	}

	if c.Summary == "" {
		return errors.New("summary is empty")
	}

	return nil
}
