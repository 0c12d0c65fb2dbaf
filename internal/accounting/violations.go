package accounting

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

// 提示中展示给用户的日期和时间格式
const (
	displayDateLayout  = "02.01.2006"
	displayClockLayout = "15:04"
)

// Limits 是生成劳动保护提示时使用的阈值，单位都是小时
type Limits struct {
	MaxHoursWithoutBreak float64
	MaxWeeklyHours       float64
	MaxShiftHours        float64
	MinRestHours         float64
}

var DefaultLimits = Limits{
	MaxHoursWithoutBreak: 8,
	MaxWeeklyHours:       40,
	MaxShiftHours:        10,
	MinRestHours:         11,
}

// DetectViolations 使用默认阈值检查一个员工一周的班次
func DetectViolations(week domain.EmployeeWeek, rules []domain.DoubleTimeRule) []domain.ViolationHint {
	return DefaultLimits.DetectViolations(week, rules)
}

// Violations 是使用默认阈值的 Limits.Violations
func Violations(week domain.EmployeeWeek, rules []domain.DoubleTimeRule) iter.Seq[domain.ViolationHint] {
	return DefaultLimits.Violations(week, rules)
}

func (l Limits) DetectViolations(week domain.EmployeeWeek, rules []domain.DoubleTimeRule) []domain.ViolationHint {
	hints := slices.Collect(l.Violations(week, rules))
	if hints == nil {
		hints = []domain.ViolationHint{}
	}
	return hints
}

// workday 是一周中某一天预先计算好的信息
type workday struct {
	key      string
	date     time.Time
	hasShift bool // 设置了开始和结束时间
	timed    bool // 时间都可以解析
	span     interval
	raw      float64
	net      float64 // 扣除休息后的实际工作时间
	breaks   int
}

func workdays(week domain.EmployeeWeek) []workday {
	days := make([]workday, 0, len(week.Days))
	for _, key := range week.Days {
		date, err := time.Parse(domain.DateKeyLayout, key)
		if err != nil {
			continue
		}

		wd := workday{key: key, date: date}
		shift, ok := week.Shifts[key]
		if ok && shift.HasTimes() {
			wd.hasShift = true
			wd.breaks = len(shift.Breaks)
			if span, ok := parseInterval(shift.StartTime, shift.EndTime); ok {
				wd.timed = true
				wd.span = span
				wd.raw = span.hours()
			}
			// 单日上限按实际工作时间判断，不计双倍部分
			wd.net, _ = NetHoursForShift(shift, nil, date.Weekday())
		}
		days = append(days, wd)
	}
	return days
}

// Violations 按固定顺序逐条产出提示：
// 无休息的长班次、连续周末工作、周工时超限、单日工时超限、两班之间休息不足。
// 每次遍历都会重新计算，可以重复遍历。
func (l Limits) Violations(week domain.EmployeeWeek, rules []domain.DoubleTimeRule) iter.Seq[domain.ViolationHint] {
	return func(yield func(domain.ViolationHint) bool) {
		days := workdays(week)

		hint := func(kind domain.ViolationKind) domain.ViolationHint {
			return domain.ViolationHint{
				EmployeeName: week.EmployeeName,
				Kind:         kind,
				Severity:     SeverityOf(kind),
			}
		}

		for _, d := range days {
			if !d.timed || d.breaks > 0 || d.raw <= l.MaxHoursWithoutBreak {
				continue
			}
			h := hint(domain.ViolationNoBreak)
			h.Day = d.key
			h.Detail = fmt.Sprintf("%s 班次 %s-%s 共 %s 小时，未安排休息",
				d.date.Format(displayDateLayout),
				d.span.start.Format(displayClockLayout),
				d.span.end.Format(displayClockLayout),
				FormatHours(d.raw),
			)
			if !yield(h) {
				return
			}
		}

		var run []workday
		flush := func() bool {
			defer func() { run = run[:0] }()
			if len(run) < 2 {
				return true
			}
			h := hint(domain.ViolationConsecutiveWeekend)
			formatted := make([]string, 0, len(run))
			for _, d := range run {
				h.Dates = append(h.Dates, d.key)
				formatted = append(formatted, d.date.Format(displayDateLayout))
			}
			h.Detail = fmt.Sprintf("连续在多个周末工作：%s", strings.Join(formatted, "、"))
			return yield(h)
		}
		for _, d := range days {
			if !isWeekend(d.date) {
				continue
			}
			if d.hasShift {
				run = append(run, d)
				continue
			}
			if !flush() {
				return
			}
		}
		if !flush() {
			return
		}

		total := TotalWeeklyHours(week, rules)
		if total > l.MaxWeeklyHours {
			h := hint(domain.ViolationWeeklyOvertime)
			h.TotalHours = RoundHours(total)
			h.Detail = fmt.Sprintf("本周总工时 %s 小时，超过 %g 小时上限", FormatHours(total), l.MaxWeeklyHours)
			if !yield(h) {
				return
			}
		}

		for _, d := range days {
			if !d.timed || d.net <= l.MaxShiftHours {
				continue
			}
			h := hint(domain.ViolationOverlongShift)
			h.Day = d.key
			h.Detail = fmt.Sprintf("%s 工时 %s 小时，超过 %g 小时上限",
				d.date.Format(displayDateLayout), FormatHours(d.net), l.MaxShiftHours)
			if !yield(h) {
				return
			}
		}

		for i := 1; i < len(days); i++ {
			prev, next := days[i-1], days[i]
			if !prev.timed || !next.timed {
				continue
			}
			_, prevEnd := prev.span.on(prev.date)
			nextStart, _ := next.span.on(next.date)
			rest := nextStart.Sub(prevEnd).Hours()
			if rest >= l.MinRestHours {
				continue
			}
			h := hint(domain.ViolationInsufficientRest)
			h.Day = next.key
			h.Detail = fmt.Sprintf("%s %s 下班至 %s %s 上班仅休息 %s 小时，少于 %g 小时",
				prev.date.Format(displayDateLayout), prev.span.end.Format(displayClockLayout),
				next.date.Format(displayDateLayout), next.span.start.Format(displayClockLayout),
				FormatHours(rest), l.MinRestHours)
			if !yield(h) {
				return
			}
		}
	}
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// SeverityOf 返回提示的严重程度，周工时和单日工时超限属于严重问题
func SeverityOf(kind domain.ViolationKind) domain.Severity {
	switch kind {
	case domain.ViolationWeeklyOvertime, domain.ViolationOverlongShift:
		return domain.SeverityError
	case domain.ViolationNoBreak, domain.ViolationConsecutiveWeekend, domain.ViolationInsufficientRest:
		return domain.SeverityWarning
	default:
		return domain.SeverityInfo
	}
}

// Summarize 计算一个员工一周的总工时和全部提示
func (l Limits) Summarize(week domain.EmployeeWeek, rules []domain.DoubleTimeRule) domain.WeekSummary {
	return domain.WeekSummary{
		EmployeeID:   week.EmployeeID,
		EmployeeName: week.EmployeeName,
		TotalHours:   FormatHours(TotalWeeklyHours(week, rules)),
		Hints:        l.DetectViolations(week, rules),
	}
}
