package domain

type ViolationKind string

const (
	ViolationNoBreak            ViolationKind = "no-break-violation"
	ViolationConsecutiveWeekend ViolationKind = "consecutive-weekend-violation"
	ViolationWeeklyOvertime     ViolationKind = "weekly-overtime-violation"
	ViolationOverlongShift      ViolationKind = "overlong-shift-violation"
	ViolationInsufficientRest   ViolationKind = "insufficient-rest-violation"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ViolationHint 是一条疑似违反劳动法规的提示，仅用于展示
type ViolationHint struct {
	EmployeeName string        `json:"employeeName"`
	Kind         ViolationKind `json:"kind"`
	Severity     Severity      `json:"severity"`
	Day          string        `json:"day,omitempty"`
	Dates        []string      `json:"dates,omitempty"`
	TotalHours   float64       `json:"totalHours,omitempty"`
	Detail       string        `json:"detail"`
}

type WeekSummary struct {
	EmployeeID   int64           `json:"employeeID"`
	EmployeeName string          `json:"employeeName"`
	TotalHours   string          `json:"totalHours"` // 保留两位小数
	Hints        []ViolationHint `json:"hints"`
}
