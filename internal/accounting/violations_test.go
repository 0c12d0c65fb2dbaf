package accounting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetpharma/backend/internal/accounting"
	"github.com/vetpharma/backend/internal/domain"
)

// 2025-03-10 是周一，2025-03-15/16 是周六和周日
var monday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func week(shifts map[string]domain.Shift) domain.EmployeeWeek {
	return domain.EmployeeWeek{
		EmployeeID:   7,
		EmployeeName: "Jonas",
		Days:         domain.WeekDays(monday),
		Shifts:       shifts,
	}
}

func kinds(hints []domain.ViolationHint) []domain.ViolationKind {
	out := make([]domain.ViolationKind, 0, len(hints))
	for _, h := range hints {
		out = append(out, h.Kind)
	}
	return out
}

func TestDetectViolations_ExactlyEightHoursWithoutBreak(t *testing.T) {
	hints := accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-10": shift("08:00", "16:00"),
	}), nil)
	assert.Empty(t, hints)
}

func TestDetectViolations_NoBreak(t *testing.T) {
	hints := accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-10": shift("08:00", "17:00"),
	}), nil)

	require.Len(t, hints, 1)
	assert.Equal(t, domain.ViolationNoBreak, hints[0].Kind)
	assert.Equal(t, domain.SeverityWarning, hints[0].Severity)
	assert.Equal(t, "Jonas", hints[0].EmployeeName)
	assert.Equal(t, "2025-03-10", hints[0].Day)
	assert.Equal(t, "10.03.2025 班次 08:00-17:00 共 9.00 小时，未安排休息", hints[0].Detail)
}

func TestDetectViolations_NoBreakJustOverEightHours(t *testing.T) {
	hints := accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-11": shift("08:00", "16:01"),
	}), nil)
	assert.Equal(t, []domain.ViolationKind{domain.ViolationNoBreak}, kinds(hints))
}

func TestDetectViolations_LongShiftWithBreakIsFine(t *testing.T) {
	hints := accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-10": shift("08:00", "17:00", brk("12:00", "12:30")),
	}), nil)
	assert.Empty(t, hints)
}

func TestDetectViolations_ConsecutiveWeekend(t *testing.T) {
	hints := accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-15": shift("09:00", "13:00"),
		"2025-03-16": shift("09:00", "13:00"),
	}), nil)

	require.Len(t, hints, 1)
	assert.Equal(t, domain.ViolationConsecutiveWeekend, hints[0].Kind)
	assert.Equal(t, []string{"2025-03-15", "2025-03-16"}, hints[0].Dates)
	assert.Equal(t, "连续在多个周末工作：15.03.2025、16.03.2025", hints[0].Detail)
}

func TestDetectViolations_SingleWeekendDay(t *testing.T) {
	hints := accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-15": shift("09:00", "13:00"),
	}), nil)
	assert.Empty(t, hints)

	// 周日只有备注不算上班
	hints = accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-15": shift("09:00", "13:00"),
		"2025-03-16": {Notes: "Notdienst auf Abruf"},
	}), nil)
	assert.Empty(t, hints)
}

func TestDetectViolations_WeekendRunAcrossWeekdays(t *testing.T) {
	// 从周日开始的一周：周日和周六之间的工作日不会打断连续的周末
	// 只有不上班的周末日或一周结束才会结束连续段，这里按字面规则把周日和周六算作连续
	w := domain.EmployeeWeek{
		EmployeeName: "Lea",
		Days:         domain.WeekDays(time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)),
		Shifts: map[string]domain.Shift{
			"2025-03-09": shift("09:00", "13:00"),
			"2025-03-15": shift("09:00", "13:00"),
		},
	}
	hints := accounting.DetectViolations(w, nil)
	require.Len(t, hints, 1)
	assert.Equal(t, []string{"2025-03-09", "2025-03-15"}, hints[0].Dates)
}

func TestDetectViolations_WeeklyOvertime(t *testing.T) {
	// 周一到周五每天 8.5 小时，共 42.5 小时
	shifts := map[string]domain.Shift{}
	for _, day := range domain.WeekDays(monday)[:5] {
		shifts[day] = shift("08:00", "17:00", brk("12:00", "12:30"))
	}
	w := week(shifts)

	assert.Equal(t, "42.50", accounting.FormatHours(accounting.TotalWeeklyHours(w, nil)))

	hints := accounting.DetectViolations(w, nil)
	require.Len(t, hints, 1)
	assert.Equal(t, domain.ViolationWeeklyOvertime, hints[0].Kind)
	assert.Equal(t, domain.SeverityError, hints[0].Severity)
	assert.Equal(t, 42.5, hints[0].TotalHours)
	assert.Equal(t, "本周总工时 42.50 小时，超过 40 小时上限", hints[0].Detail)
}

func TestDetectViolations_ExactlyFortyHours(t *testing.T) {
	shifts := map[string]domain.Shift{}
	for _, day := range domain.WeekDays(monday)[:5] {
		shifts[day] = shift("08:00", "16:30", brk("12:00", "12:30"))
	}
	assert.Empty(t, accounting.DetectViolations(week(shifts), nil))
}

func TestDetectViolations_DoubleTimeCountsTowardsWeeklyTotal(t *testing.T) {
	shifts := map[string]domain.Shift{}
	for _, day := range domain.WeekDays(monday)[:5] {
		shifts[day] = shift("08:00", "16:00", brk("12:00", "12:30"))
	}
	rules := []domain.DoubleTimeRule{{Weekday: int32(time.Monday), StartTime: "08:00", EndTime: "12:00"}}

	hints := accounting.DetectViolations(week(shifts), rules)
	require.Len(t, hints, 1)
	assert.Equal(t, 41.5, hints[0].TotalHours)
}

func TestDetectViolations_Order(t *testing.T) {
	hints := accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-10": shift("06:00", "17:00"),
		"2025-03-11": shift("08:00", "17:00"),
		"2025-03-12": shift("07:00", "18:00", brk("12:00", "12:30")),
		"2025-03-13": shift("07:00", "18:00", brk("12:00", "12:30")),
		"2025-03-15": shift("09:00", "14:00"),
		"2025-03-16": shift("09:00", "14:00"),
	}), nil)

	assert.Equal(t, []domain.ViolationKind{
		domain.ViolationNoBreak,
		domain.ViolationNoBreak,
		domain.ViolationConsecutiveWeekend,
		domain.ViolationWeeklyOvertime,
		domain.ViolationOverlongShift,
		domain.ViolationOverlongShift,
		domain.ViolationOverlongShift,
	}, kinds(hints))
	assert.Equal(t, "2025-03-10", hints[0].Day)
	assert.Equal(t, "2025-03-11", hints[1].Day)
}

func TestDetectViolations_InsufficientRest(t *testing.T) {
	hints := accounting.DetectViolations(week(map[string]domain.Shift{
		"2025-03-10": shift("14:00", "22:00", brk("18:00", "18:30")),
		"2025-03-11": shift("06:00", "12:00"),
	}), nil)

	require.Len(t, hints, 1)
	assert.Equal(t, domain.ViolationInsufficientRest, hints[0].Kind)
	assert.Equal(t, "2025-03-11", hints[0].Day)
	assert.Equal(t, "10.03.2025 22:00 下班至 11.03.2025 06:00 上班仅休息 8.00 小时，少于 11 小时", hints[0].Detail)
}

func TestDetectViolations_CustomLimits(t *testing.T) {
	limits := accounting.DefaultLimits
	limits.MaxWeeklyHours = 48

	shifts := map[string]domain.Shift{}
	for _, day := range domain.WeekDays(monday)[:5] {
		shifts[day] = shift("08:00", "17:00", brk("12:00", "12:30"))
	}
	assert.Empty(t, limits.DetectViolations(week(shifts), nil))
}

func TestDetectViolations_EmptyWeekReturnsEmptySlice(t *testing.T) {
	hints := accounting.DetectViolations(week(nil), nil)
	assert.NotNil(t, hints)
	assert.Empty(t, hints)
}

func TestViolations_StopsEarlyAndRestarts(t *testing.T) {
	w := week(map[string]domain.Shift{
		"2025-03-10": shift("08:00", "17:00"),
		"2025-03-11": shift("08:00", "17:00"),
		"2025-03-12": shift("08:00", "17:00"),
	})
	seq := accounting.Violations(w, nil)

	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)

	// 重新遍历得到完整的结果
	all := 0
	for range seq {
		all++
	}
	assert.Equal(t, 3, all)
}

func TestSummarize(t *testing.T) {
	w := week(map[string]domain.Shift{
		"2025-03-14": shift("16:00", "23:00"),
	})
	rules := []domain.DoubleTimeRule{{Weekday: int32(time.Friday), StartTime: "18:00", EndTime: "22:00"}}

	summary := accounting.DefaultLimits.Summarize(w, rules)
	assert.Equal(t, int64(7), summary.EmployeeID)
	assert.Equal(t, "11.00", summary.TotalHours)
	// 双倍部分只影响总工时，不会让 7 小时的班次变成超长班次
	assert.Empty(t, summary.Hints)
}
