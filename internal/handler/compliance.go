package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/export"
	"github.com/vetpharma/backend/internal/utils"
)

const displayDateLayout = "02.01.2006"

// weekDays 返回从 weekStart 开始的 7 个日期键，weekStart 为空时取本周一
func (h *Handler) weekDays(weekStart string) ([]string, error) {
	if weekStart == "" {
		return domain.WeekDays(domain.MondayOf(h.now())), nil
	}

	start, err := utils.ParseDateKey(weekStart)
	if err != nil {
		return nil, err
	}
	return domain.WeekDays(start), nil
}

// loadWeeks 读取当前用户名下所有员工在 days 内的班次和双倍工时规则
func (h *Handler) loadWeeks(r *http.Request, days []string) ([]domain.EmployeeWeek, []domain.DoubleTimeRule, error) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		return nil, nil, err
	}

	employees, err := h.repository.GetRosterEmployees(ownerID)
	if err != nil {
		return nil, nil, err
	}

	shifts, err := h.repository.GetShiftsBetween(ownerID, days[0], days[len(days)-1])
	if err != nil {
		return nil, nil, err
	}

	rules, err := h.repository.GetDoubleTimeRules(ownerID)
	if err != nil {
		return nil, nil, err
	}

	weeks := make([]domain.EmployeeWeek, 0, len(employees))
	for _, employee := range employees {
		employeeShifts, ok := shifts[employee.ID]
		if !ok {
			employeeShifts = make(map[string]domain.Shift)
		}
		weeks = append(weeks, domain.EmployeeWeek{
			EmployeeID:   employee.ID,
			EmployeeName: employee.Name,
			Days:         days,
			Shifts:       employeeShifts,
		})
	}

	return weeks, rules, nil
}

func (h *Handler) summarize(weeks []domain.EmployeeWeek, rules []domain.DoubleTimeRule) []domain.WeekSummary {
	summaries := make([]domain.WeekSummary, 0, len(weeks))
	for _, week := range weeks {
		summaries = append(summaries, h.limits.Summarize(week, rules))
	}
	return summaries
}

type complianceResponse struct {
	Days      []string             `json:"days"`
	Summaries []domain.WeekSummary `json:"summaries"`
}

func (h *Handler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	days, err := h.weekDays(r.URL.Query().Get("weekStart"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	weeks, rules, err := h.loadWeeks(r, days)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工时统计成功", complianceResponse{
		Days:      days,
		Summaries: h.summarize(weeks, rules),
	})
}

// PreviewCompliance 对尚未保存的草稿计算工时和提示，不会写入数据库
// 请求中没有带规则时使用已保存的双倍工时规则
func (h *Handler) PreviewCompliance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart    string                   `json:"weekStart"`
		EmployeeName string                   `json:"employeeName" validate:"required"`
		Shifts       map[string]domain.Shift  `json:"shifts"`
		Rules        *[]domain.DoubleTimeRule `json:"rules"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	days, err := h.weekDays(req.WeekStart)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateWeek(days, req.Shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var rules []domain.DoubleTimeRule
	if req.Rules != nil {
		rules = *req.Rules
		for i := range rules {
			if err := utils.ValidateDoubleTimeRule(&rules[i]); err != nil {
				h.badRequest(w, r, err)
				return
			}
		}
	} else {
		ownerID, err := h.currentUserID(r)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if rules, err = h.repository.GetDoubleTimeRules(ownerID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	if req.Shifts == nil {
		req.Shifts = make(map[string]domain.Shift)
	}

	week := domain.EmployeeWeek{
		EmployeeName: req.EmployeeName,
		Days:         days,
		Shifts:       req.Shifts,
	}

	h.successResponse(w, r, "计算工时成功", h.limits.Summarize(week, rules))
}

// SendComplianceReport 把一周的工时统计通过邮件发给当前用户
func (h *Handler) SendComplianceReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart string `json:"weekStart"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	days, err := h.weekDays(req.WeekStart)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	weeks, rules, err := h.loadWeeks(r, days)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if err := h.publishMail(domain.MailMessage{
		Type: domain.MailTypeComplianceReport,
		To:   myInfo.Email,
		Data: domain.ComplianceReportMailData{
			FullName:  myInfo.FullName,
			WeekStart: displayDate(days[0]),
			WeekEnd:   displayDate(days[len(days)-1]),
			Summaries: h.summarize(weeks, rules),
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "工时报告已通过邮件发送", nil)
}

func (h *Handler) ExportRoster(w http.ResponseWriter, r *http.Request) {
	days, err := h.weekDays(r.URL.Query().Get("weekStart"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	weeks, rules, err := h.loadWeeks(r, days)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	buf := &bytes.Buffer{}
	if err := export.WriteRoster(buf, days, weeks, rules); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeXLSX(w, r, fmt.Sprintf("Dienstplan_%s.xlsx", days[0]), buf)
}

func displayDate(key string) string {
	date, err := time.Parse(domain.DateKeyLayout, key)
	if err != nil {
		return key
	}
	return date.Format(displayDateLayout)
}
