package accounting

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetpharma/backend/internal/domain"
)

// ErrIncompleteShift 表示调用方传入了缺少开始或结束时间的班次
// 休息日应该在调用前被过滤掉
var ErrIncompleteShift = errors.New("班次缺少开始时间或结束时间")

// NetHoursForShift 计算一个班次计入总工时的小时数
//
// 先用结束时间减去开始时间，再扣除落在班次内的休息时段，结果不小于 0。
// 如果当天存在双倍工时规则，班次与规则时段重叠的部分（同样扣除休息）会再加一次，总和同样不小于 0。
// 时间无法解析的班次记为 0 小时，不会返回错误。
func NetHoursForShift(shift domain.Shift, rules []domain.DoubleTimeRule, weekday time.Weekday) (float64, error) {
	if !shift.HasTimes() {
		return 0, ErrIncompleteShift
	}

	span, ok := parseInterval(shift.StartTime, shift.EndTime)
	if !ok {
		return 0, nil
	}

	breaks := sortedBreaks(shift.Breaks)

	net := span.hours() - breakOverlap(span, breaks)
	if net < 0 {
		net = 0
	}

	rule, ok := ruleFor(rules, weekday)
	if !ok {
		return net, nil
	}

	overlap, ok := span.clip(rule)
	if !ok {
		return net, nil
	}

	// 重叠的休息会被分别扣减，双倍部分可能为负，照样累加
	net += overlap.hours() - breakOverlap(overlap, breaks)
	if net < 0 {
		net = 0
	}

	return net, nil
}

// ruleFor 返回适用于 weekday 的第一条规则
// 同一天存在多条规则时只取第一条，规则本身的时间无法解析时视为没有双倍工时
func ruleFor(rules []domain.DoubleTimeRule, weekday time.Weekday) (interval, bool) {
	for _, rule := range rules {
		if rule.Weekday != int32(weekday) {
			continue
		}
		return parseInterval(rule.StartTime, rule.EndTime)
	}
	return interval{}, false
}

// TotalWeeklyHours 累加一周 7 天的工时，不做取整
func TotalWeeklyHours(week domain.EmployeeWeek, rules []domain.DoubleTimeRule) float64 {
	total := 0.0
	for _, day := range week.Days {
		total += dayHours(week, day, rules)
	}
	return total
}

func dayHours(week domain.EmployeeWeek, day string, rules []domain.DoubleTimeRule) float64 {
	shift, ok := week.Shifts[day]
	if !ok || !shift.HasTimes() {
		return 0
	}

	date, err := time.Parse(domain.DateKeyLayout, day)
	if err != nil {
		return 0
	}

	hours, err := NetHoursForShift(shift, rules, date.Weekday())
	if err != nil {
		return 0
	}
	return hours
}

// RoundHours 把工时四舍五入到两位小数
func RoundHours(hours float64) float64 {
	return decimal.NewFromFloat(hours).Round(2).InexactFloat64()
}

// FormatHours 把工时格式化为固定两位小数的字符串，例如 "42.50"
func FormatHours(hours float64) string {
	return decimal.NewFromFloat(hours).StringFixed(2)
}
