package accounting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetpharma/backend/internal/accounting"
	"github.com/vetpharma/backend/internal/domain"
)

func shift(start, end string, breaks ...domain.Break) domain.Shift {
	return domain.Shift{StartTime: start, EndTime: end, Breaks: breaks}
}

func brk(start, end string) domain.Break {
	return domain.Break{StartTime: start, EndTime: end}
}

func netHours(t *testing.T, s domain.Shift, rules []domain.DoubleTimeRule, weekday time.Weekday) float64 {
	t.Helper()
	hours, err := accounting.NetHoursForShift(s, rules, weekday)
	require.NoError(t, err)
	return hours
}

func TestNetHoursForShift_NoBreaks(t *testing.T) {
	// 08:00-16:00，周一，没有双倍规则
	assert.InDelta(t, 8.0, netHours(t, shift("08:00", "16:00"), nil, time.Monday), 1e-9)
	assert.InDelta(t, 9.0, netHours(t, shift("08:00", "17:00"), nil, time.Monday), 1e-9)
	assert.InDelta(t, 0.25, netHours(t, shift("09:45", "10:00"), nil, time.Monday), 1e-9)
}

func TestNetHoursForShift_BreakInside(t *testing.T) {
	got := netHours(t, shift("08:00", "16:00", brk("12:00", "12:30")), nil, time.Monday)
	assert.InDelta(t, 7.5, got, 1e-9)
}

func TestNetHoursForShift_BreakOutsideIsIgnored(t *testing.T) {
	base := netHours(t, shift("08:00", "16:00"), nil, time.Tuesday)
	withBreak := netHours(t, shift("08:00", "16:00", brk("17:00", "18:00"), brk("06:00", "07:59")), nil, time.Tuesday)
	assert.Equal(t, base, withBreak)
}

func TestNetHoursForShift_BreakIsClippedToShift(t *testing.T) {
	// 只有 15:00-16:00 这一段落在班次内
	got := netHours(t, shift("08:00", "16:00", brk("15:00", "17:00")), nil, time.Monday)
	assert.InDelta(t, 7.0, got, 1e-9)

	got = netHours(t, shift("08:00", "16:00", brk("07:00", "08:30")), nil, time.Monday)
	assert.InDelta(t, 7.5, got, 1e-9)
}

func TestNetHoursForShift_UnsortedBreaks(t *testing.T) {
	got := netHours(t, shift("08:00", "16:00", brk("14:00", "14:15"), brk("10:00", "10:15"), brk("12:00", "12:30")), nil, time.Monday)
	assert.InDelta(t, 7.0, got, 1e-9)
}

func TestNetHoursForShift_OverlappingBreaksAreSubtractedIndependently(t *testing.T) {
	// 12:00-13:00 和 12:30-13:30 重叠了半小时，两段各自扣减，共扣 2 小时
	got := netHours(t, shift("08:00", "16:00", brk("12:00", "13:00"), brk("12:30", "13:30")), nil, time.Monday)
	assert.InDelta(t, 6.0, got, 1e-9)
}

func TestNetHoursForShift_FlooredAtZero(t *testing.T) {
	got := netHours(t, shift("08:00", "09:00", brk("08:00", "09:00"), brk("08:00", "09:00")), nil, time.Monday)
	assert.Equal(t, 0.0, got)
}

func TestNetHoursForShift_DoubleTime(t *testing.T) {
	rules := []domain.DoubleTimeRule{{Weekday: int32(time.Friday), StartTime: "18:00", EndTime: "22:00"}}

	// 原始 7 小时 + 与规则重叠的 4 小时
	assert.InDelta(t, 11.0, netHours(t, shift("16:00", "23:00"), rules, time.Friday), 1e-9)

	// 规则只在周五生效
	assert.InDelta(t, 7.0, netHours(t, shift("16:00", "23:00"), rules, time.Thursday), 1e-9)

	// 与规则没有重叠
	assert.InDelta(t, 8.0, netHours(t, shift("08:00", "16:00"), rules, time.Friday), 1e-9)
}

func TestNetHoursForShift_DoubleTimeMinusBreaks(t *testing.T) {
	rules := []domain.DoubleTimeRule{{Weekday: int32(time.Friday), StartTime: "18:00", EndTime: "22:00"}}

	// 休息 19:00-19:30 在双倍时段内：基础 6.5，双倍部分 3.5
	got := netHours(t, shift("16:00", "23:00", brk("19:00", "19:30")), rules, time.Friday)
	assert.InDelta(t, 10.0, got, 1e-9)

	// 休息 17:00-18:30 只有半小时落在双倍时段内：基础 5.5，双倍部分 3.5
	got = netHours(t, shift("16:00", "23:00", brk("17:00", "18:30")), rules, time.Friday)
	assert.InDelta(t, 9.0, got, 1e-9)
}

func TestNetHoursForShift_NegativeDoubleTimeIsAdded(t *testing.T) {
	rules := []domain.DoubleTimeRule{{Weekday: int32(time.Monday), StartTime: "08:00", EndTime: "10:00"}}

	// 两段相同的休息各扣一次：基础 8-2-2=4，双倍部分 2-2-2=-2
	got := netHours(t, shift("08:00", "16:00", brk("08:00", "10:00"), brk("08:00", "10:00")), rules, time.Monday)
	assert.InDelta(t, 2.0, got, 1e-9)

	// 总和不小于 0：基础被扣到 0，双倍部分 2-2-2-2=-4
	got = netHours(t, shift("08:00", "12:00", brk("08:00", "10:00"), brk("08:00", "10:00"), brk("08:00", "10:00")), rules, time.Monday)
	assert.InDelta(t, 0.0, got, 1e-9)
}

func TestNetHoursForShift_DuplicateRulesUseTheFirst(t *testing.T) {
	rules := []domain.DoubleTimeRule{
		{ID: 1, Weekday: int32(time.Saturday), StartTime: "10:00", EndTime: "11:00"},
		{ID: 2, Weekday: int32(time.Saturday), StartTime: "08:00", EndTime: "16:00"},
	}
	assert.InDelta(t, 9.0, netHours(t, shift("08:00", "16:00"), rules, time.Saturday), 1e-9)
}

func TestNetHoursForShift_MalformedTimes(t *testing.T) {
	// 班次时间无法解析时记为 0
	assert.Equal(t, 0.0, netHours(t, shift("8 Uhr", "16:00"), nil, time.Monday))
	assert.Equal(t, 0.0, netHours(t, shift("08:00", "25:00"), nil, time.Monday))

	// 无法解析的休息被忽略
	got := netHours(t, shift("08:00", "16:00", brk("12:00", "xx"), brk("13:00", "13:30")), nil, time.Monday)
	assert.InDelta(t, 7.5, got, 1e-9)

	// 无法解析的规则不产生双倍工时
	rules := []domain.DoubleTimeRule{{Weekday: int32(time.Monday), StartTime: "abends", EndTime: "22:00"}}
	assert.InDelta(t, 8.0, netHours(t, shift("08:00", "16:00"), rules, time.Monday), 1e-9)
}

func TestNetHoursForShift_AcceptsSeconds(t *testing.T) {
	assert.InDelta(t, 7.5, netHours(t, shift("08:00:00", "16:00:00", brk("12:00:00", "12:30:00")), nil, time.Monday), 1e-9)
}

func TestNetHoursForShift_IncompleteShift(t *testing.T) {
	for _, s := range []domain.Shift{
		{Notes: "Urlaub"},
		{StartTime: "08:00"},
		{EndTime: "16:00"},
	} {
		_, err := accounting.NetHoursForShift(s, nil, time.Monday)
		assert.ErrorIs(t, err, accounting.ErrIncompleteShift)
	}
}

func TestNetHoursForShift_DoesNotMutateBreaks(t *testing.T) {
	s := shift("08:00", "16:00", brk("14:00", "14:15"), brk("10:00", "10:15"))
	_, err := accounting.NetHoursForShift(s, nil, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, "14:00", s.Breaks[0].StartTime)
}

func TestTotalWeeklyHours(t *testing.T) {
	week := domain.EmployeeWeek{
		EmployeeName: "Anna",
		Days:         domain.WeekDays(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)),
		Shifts: map[string]domain.Shift{
			"2025-03-10": shift("08:00", "16:00", brk("12:00", "12:30")),
			"2025-03-11": shift("08:00", "12:00"),
			"2025-03-12": {Notes: "Berufsschule"},
			"2025-03-13": {StartTime: "08:00"},
			"2025-03-14": shift("16:00", "23:00"),
			"2025-03-20": shift("08:00", "16:00"), // 不在本周
		},
	}
	rules := []domain.DoubleTimeRule{{Weekday: int32(time.Friday), StartTime: "18:00", EndTime: "22:00"}}

	total := accounting.TotalWeeklyHours(week, rules)
	assert.InDelta(t, 7.5+4+11, total, 1e-9)

	// 总工时等于每天工时之和，与顺序无关
	sum := 0.0
	for i := len(week.Days) - 1; i >= 0; i-- {
		day := week.Days[i]
		s, ok := week.Shifts[day]
		if !ok || !s.HasTimes() {
			continue
		}
		date, err := time.Parse(domain.DateKeyLayout, day)
		require.NoError(t, err)
		sum += netHours(t, s, rules, date.Weekday())
	}
	assert.Equal(t, sum, total)
}

func TestTotalWeeklyHours_EmptyWeek(t *testing.T) {
	week := domain.EmployeeWeek{Days: domain.WeekDays(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))}
	assert.Equal(t, 0.0, accounting.TotalWeeklyHours(week, nil))
}

func TestRoundAndFormatHours(t *testing.T) {
	assert.Equal(t, 42.5, accounting.RoundHours(42.5))
	assert.Equal(t, "42.50", accounting.FormatHours(42.5))
	assert.Equal(t, "8.02", accounting.FormatHours(8+1.0/60))
	assert.Equal(t, 7.67, accounting.RoundHours(7+2.0/3))
	assert.Equal(t, "0.00", accounting.FormatHours(0))
}
