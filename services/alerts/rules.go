package alerts

import (
	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/internal/enum"
)

// EscalationRule marks an alert as priority when it matches. The escalation
// policy is this rule table, nothing else.
type EscalationRule struct {
	Name    string
	Matches func(c *dto.CallClassification, isRecurring bool) bool
}

// DefaultEscalationRules: an alert is priority when ANY rule matches.
func DefaultEscalationRules() []EscalationRule {
	return []EscalationRule{
		{
			Name: "critical_severity",
			Matches: func(c *dto.CallClassification, _ bool) bool {
				return c.Severity == enum.SeverityCritical
			},
		},
		{
			Name: "multiple_machines",
			Matches: func(c *dto.CallClassification, _ bool) bool {
				return c.MachineImpact == enum.ImpactMultipleMachines
			},
		},
		{
			Name: "angry_client",
			Matches: func(c *dto.CallClassification, _ bool) bool {
				return c.ClientMood == enum.MoodAngry
			},
		},
		{
			Name: "urgent_payment_terminal",
			Matches: func(c *dto.CallClassification, _ bool) bool {
				return c.Category == enum.CallPaymentTerminal && c.Severity == enum.SeverityUrgent
			},
		},
		{
			Name: "recurring_issue",
			Matches: func(_ *dto.CallClassification, isRecurring bool) bool {
				return isRecurring
			},
		},
	}
}

func isPriority(rules []EscalationRule, c *dto.CallClassification, isRecurring bool) bool {
	for _, rule := range rules {
		if rule.Matches(c, isRecurring) {
			return true
		}
	}
	return false
}
