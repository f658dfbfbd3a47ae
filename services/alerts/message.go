package alerts

import (
	"fmt"
	"strings"

	"github.com/laundryos/washstack/interfaces"
)

const (
	priorityPrefix = "🚨 INCIDENT PRIORITAIRE"
	standardPrefix = "⚠️ PROBLÈME SIGNALÉ"

	recurringMarker = "⚠️ Problème récurrent sur les dernières 24h"
)

// composeMessage renders the alert SMS body in French, the operators'
// working language.
func composeMessage(request interfaces.AlertRequest, priority bool, dashboardUrl string) string {
	c := request.Classification

	var b strings.Builder

	if priority {
		b.WriteString(priorityPrefix)
	} else {
		b.WriteString(standardPrefix)
	}
	b.WriteString("\n")

	location := request.MachineLabel
	if location == "" {
		location = request.MachineID
	}
	fmt.Fprintf(&b, "Machine %s", location)
	if request.LaundryAddress != "" {
		fmt.Fprintf(&b, " - %s", request.LaundryAddress)
	}
	b.WriteString("\n")

	b.WriteString(c.Summary)
	b.WriteString("\n")

	if c.RequiresTechnician {
		b.WriteString("Intervention technicien requise\n")
	}
	if request.IsRecurring {
		b.WriteString(recurringMarker)
		b.WriteString("\n")
	}

	if len(c.RecommendedActions) > 0 {
		b.WriteString("Actions recommandées:\n")
		for i, action := range c.RecommendedActions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, action)
		}
	}

	fmt.Fprintf(&b, "%s/events/%s", dashboardUrl, request.EventID)

	return b.String()
}
