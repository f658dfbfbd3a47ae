package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/internal/enum"
)

func TestDefaultEscalationRules(t *testing.T) {
	rules := DefaultEscalationRules()

	base := func() *dto.CallClassification {
		return &dto.CallClassification{
			Category:      enum.CallTechnicalIssue,
			Severity:      enum.SeverityMedium,
			ClientMood:    enum.MoodCalm,
			MachineImpact: enum.ImpactSingleMachine,
			Summary:       "test",
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *dto.CallClassification)
		recurring bool
		priority  bool
	}{
		{name: "baseline technical issue", mutate: func(c *dto.CallClassification) {}, priority: false},
		{name: "critical severity", mutate: func(c *dto.CallClassification) { c.Severity = enum.SeverityCritical }, priority: true},
		{name: "multiple machines", mutate: func(c *dto.CallClassification) { c.MachineImpact = enum.ImpactMultipleMachines }, priority: true},
		{name: "angry client", mutate: func(c *dto.CallClassification) { c.ClientMood = enum.MoodAngry }, priority: true},
		{name: "urgent payment terminal", mutate: func(c *dto.CallClassification) {
			c.Category = enum.CallPaymentTerminal
			c.Severity = enum.SeverityUrgent
		}, priority: true},
		{name: "payment terminal normal severity", mutate: func(c *dto.CallClassification) {
			c.Category = enum.CallPaymentTerminal
		}, priority: false},
		{name: "recurring", mutate: func(c *dto.CallClassification) {}, recurring: true, priority: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Equal(t, tt.priority, isPriority(rules, c, tt.recurring))
		})
	}
}
