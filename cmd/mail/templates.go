package main

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/vetpharma/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type mailKind struct {
	template string
	subject  string
	data     func() any
}

var mailKinds = map[string]mailKind{
	domain.MailTypeCreateUser: {
		template: "new_account_email.html",
		subject:  "VetPharma - 账户信息",
		data:     func() any { return &domain.CreateUserMailData{} },
	},
	domain.MailTypeResetPassword: {
		template: "reset_password_otp_email.html",
		subject:  "VetPharma - 重置密码",
		data:     func() any { return &domain.ResetPasswordMailData{} },
	},
	domain.MailTypeChangeEmail: {
		template: "change_email_email.html",
		subject:  "VetPharma - 修改邮箱",
		data:     func() any { return &domain.ChangeEmailMailData{} },
	},
	domain.MailTypeComplianceReport: {
		template: "compliance_report_email.html",
		subject:  "VetPharma - 每周工时报告",
		data:     func() any { return &domain.ComplianceReportMailData{} },
	},
	domain.MailTypeInventoryAlert: {
		template: "inventory_alert_email.html",
		subject:  "VetPharma - 库存提醒",
		data:     func() any { return &domain.InventoryAlertMailData{} },
	},
}

// queuedMail 与 domain.MailMessage 对应，Data 延迟到确定类型后再解析
type queuedMail struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

var errUnknownMailType = errors.New("不支持的邮件类型")

// buildMail 根据队列中的消息构建一封待发送的邮件
func buildMail(from string, body []byte) (*mail.Msg, error) {
	var qm queuedMail
	if err := json.Unmarshal(body, &qm); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	kind, ok := mailKinds[qm.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownMailType, qm.Type)
	}

	data := kind.data()
	if err := json.Unmarshal(qm.Data, data); err != nil {
		return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(qm.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(templates.Lookup(kind.template), data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject(kind.subject)

	return m, nil
}
