package enums

// BudgetAlertLevel classifies budget consumption against the overspend
// thresholds: 90% of the allocation is critical, 75% is a warning.
type BudgetAlertLevel string

const (
	BudgetAlertNormal   BudgetAlertLevel = "normal"
	BudgetAlertWarning  BudgetAlertLevel = "warning"
	BudgetAlertCritical BudgetAlertLevel = "critical"
)

// String implements fmt.Stringer.
func (b BudgetAlertLevel) String() string {
	return string(b)
}

// AlertLevelFor maps a spend percentage to its alert level.
func AlertLevelFor(percent float64) BudgetAlertLevel {
	switch {
	case percent >= 90:
		return BudgetAlertCritical
	case percent >= 75:
		return BudgetAlertWarning
	default:
		return BudgetAlertNormal
	}
}
