package enum

type CallCategory string

const (
	CallInformationRequest CallCategory = "information_request"
	CallTechnicalIssue     CallCategory = "technical_issue"
	CallCriticalIncident   CallCategory = "critical_incident"
	CallPaymentTerminal    CallCategory = "payment_terminal"
)

func (t CallCategory) String() string {
	return string(t)
}

type CallSeverity string

const (
	SeverityNormal   CallSeverity = "normal"
	SeverityMedium   CallSeverity = "medium"
	SeverityUrgent   CallSeverity = "urgent"
	SeverityCritical CallSeverity = "critical"
)

func (t CallSeverity) String() string {
	return string(t)
}

type ClientMood string

const (
	MoodCalm       ClientMood = "calm"
	MoodFrustrated ClientMood = "frustrated"
	MoodAngry      ClientMood = "angry"
)

func (t ClientMood) String() string {
	return string(t)
}

type MachineImpact string

const (
	ImpactSingleMachine    MachineImpact = "single_machine"
	ImpactMultipleMachines MachineImpact = "multiple_machines"
)

func (t MachineImpact) String() string {
	return string(t)
}
