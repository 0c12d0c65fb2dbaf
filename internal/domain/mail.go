package domain

// MailQueue 是 api 与 mail worker 共用的队列名
const MailQueue = "email_queue"

const (
	MailTypeCreateUser       = "create_user"
	MailTypeResetPassword    = "reset_password"
	MailTypeChangeEmail      = "change_email"
	MailTypeComplianceReport = "compliance_report"
	MailTypeInventoryAlert   = "inventory_alert"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ComplianceReportMailData struct {
	FullName  string        `json:"fullName"`
	WeekStart string        `json:"weekStart"` // DD.MM.YYYY
	WeekEnd   string        `json:"weekEnd"`   // DD.MM.YYYY
	Summaries []WeekSummary `json:"summaries"`
}

type InventoryAlertMailData struct {
	FullName string           `json:"fullName"`
	Alerts   []InventoryAlert `json:"alerts"`
}
