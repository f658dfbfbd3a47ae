package enum

type AlertType string

const (
	AlertCriticalIncident AlertType = "critical_incident"
	AlertTechnicalIssue   AlertType = "technical_issue"
)

func (t AlertType) String() string {
	return string(t)
}
