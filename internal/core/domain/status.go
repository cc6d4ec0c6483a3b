package domain

// CheckStatus is the outcome of a check or similarity classification.
type CheckStatus string

// Check statuses, worst to best: FAIL < WARNING < PASS.
const (
	StatusPass    CheckStatus = "PASS"
	StatusWarning CheckStatus = "WARNING"
	StatusFail    CheckStatus = "FAIL"
)

// IsValid returns true if the status is recognised.
func (s CheckStatus) IsValid() bool {
	switch s {
	case StatusPass, StatusWarning, StatusFail:
		return true
	default:
		return false
	}
}

// Credit returns the fraction of a rule's weight earned by this status.
func (s CheckStatus) Credit() float64 {
	switch s {
	case StatusPass:
		return 1.0
	case StatusWarning:
		return 0.5
	default:
		return 0
	}
}

// IsProblem returns true for FAIL and WARNING.
func (s CheckStatus) IsProblem() bool {
	return s == StatusFail || s == StatusWarning
}

// String returns the string representation.
func (s CheckStatus) String() string {
	return string(s)
}

// Priority ranks checklist rules by importance.
type Priority string

// Available priorities.
const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
)

// Weight returns the scoring weight of the priority.
func (p Priority) Weight() float64 {
	switch p {
	case PriorityCritical:
		return 3.0
	case PriorityHigh:
		return 2.0
	case PriorityMedium:
		return 1.0
	default:
		return 0
	}
}

// String returns the string representation.
func (p Priority) String() string {
	return string(p)
}
