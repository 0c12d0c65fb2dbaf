package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/utils"
)

func (h *Handler) GetRosterEmployees(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	employees, err := h.repository.GetRosterEmployees(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) rosterEmployeeConflict(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.ConstraintName == "roster_employees_owner_name_key":
		h.errorResponse(w, r, "员工姓名已存在")
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "员工信息已被修改，请刷新后重试")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) CreateRosterEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	employee := &domain.RosterEmployee{
		OwnerID: ownerID,
		Name:    req.Name,
	}
	if err := h.repository.CreateRosterEmployee(employee); err != nil {
		h.rosterEmployeeConflict(w, r, err)
		return
	}

	h.successResponse(w, r, "创建员工成功", employee)
}

func (h *Handler) GetRosterEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(RosterEmployeeCtx).(*domain.RosterEmployee)
	h.successResponse(w, r, "获取员工成功", employee)
}

func (h *Handler) UpdateRosterEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(RosterEmployeeCtx).(*domain.RosterEmployee)
	employee.Name = req.Name

	if err := h.repository.UpdateRosterEmployee(employee); err != nil {
		h.rosterEmployeeConflict(w, r, err)
		return
	}

	h.successResponse(w, r, "更新员工成功", employee)
}

func (h *Handler) DeleteRosterEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(RosterEmployeeCtx).(*domain.RosterEmployee)

	if err := h.repository.DeleteRosterEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}

// employeeWeek 读取员工一周已保存的班次
func (h *Handler) employeeWeek(employee *domain.RosterEmployee, days []string) (domain.EmployeeWeek, error) {
	shifts, err := h.repository.GetEmployeeShifts(employee.ID, days[0], days[len(days)-1])
	if err != nil {
		return domain.EmployeeWeek{}, err
	}

	return domain.EmployeeWeek{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Days:         days,
		Shifts:       shifts,
	}, nil
}

type employeeWeekResponse struct {
	Week    domain.EmployeeWeek `json:"week"`
	Summary domain.WeekSummary  `json:"summary"`
}

func (h *Handler) respondEmployeeWeek(w http.ResponseWriter, r *http.Request, msg string, employee *domain.RosterEmployee, days []string) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	week, err := h.employeeWeek(employee, days)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rules, err := h.repository.GetDoubleTimeRules(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, msg, employeeWeekResponse{
		Week:    week,
		Summary: h.limits.Summarize(week, rules),
	})
}

func (h *Handler) GetEmployeeWeek(w http.ResponseWriter, r *http.Request) {
	days, err := h.weekDays(r.URL.Query().Get("weekStart"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(RosterEmployeeCtx).(*domain.RosterEmployee)
	h.respondEmployeeWeek(w, r, "获取班次成功", employee, days)
}

func (h *Handler) SaveShift(w http.ResponseWriter, r *http.Request) {
	date, err := utils.ParseDateKey(chi.URLParam(r, "date"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var req domain.Shift
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShift(&req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(RosterEmployeeCtx).(*domain.RosterEmployee)
	if err := h.repository.SaveShift(employee.ID, date.Format(domain.DateKeyLayout), req); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.respondEmployeeWeek(w, r, "保存班次成功", employee, domain.WeekDays(domain.MondayOf(date)))
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	date, err := utils.ParseDateKey(chi.URLParam(r, "date"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(RosterEmployeeCtx).(*domain.RosterEmployee)
	if err := h.repository.DeleteShift(employee.ID, date.Format(domain.DateKeyLayout)); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}

// ReplaceWeek 一次性提交整周的草稿，草稿中没有的日期会被清空
func (h *Handler) ReplaceWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart string                  `json:"weekStart" validate:"required"`
		Shifts    map[string]domain.Shift `json:"shifts"`
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

	employee := r.Context().Value(RosterEmployeeCtx).(*domain.RosterEmployee)
	if err := h.repository.ReplaceWeek(employee.ID, days, req.Shifts); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.respondEmployeeWeek(w, r, "保存本周班次成功", employee, days)
}
