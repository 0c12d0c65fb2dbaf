package utils

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

const clockLayout = "15:04"

func parseClock(s string) (time.Time, error) {
	return time.Parse(clockLayout, s)
}

// ValidateShift 检查提交的班次是否合法
// 开始和结束时间要么都填要么都不填，休息只能安排在有上班时间的班次中
func ValidateShift(shift *domain.Shift) error {
	if shift.StartTime == "" && shift.EndTime == "" {
		if len(shift.Breaks) > 0 {
			return errors.New("没有上班时间的班次不能安排休息")
		}
		return nil
	}

	if shift.StartTime == "" || shift.EndTime == "" {
		return errors.New("开始时间和结束时间必须同时填写")
	}

	startTime, err := parseClock(shift.StartTime)
	if err != nil {
		return errors.New("开始时间格式错误")
	}
	endTime, err := parseClock(shift.EndTime)
	if err != nil {
		return errors.New("结束时间格式错误")
	}
	if !endTime.After(startTime) {
		return errors.New("结束时间必须晚于开始时间")
	}

	for i, b := range shift.Breaks {
		breakStart, err := parseClock(b.StartTime)
		if err != nil {
			return fmt.Errorf("休息 %d 的开始时间格式错误", i+1)
		}
		breakEnd, err := parseClock(b.EndTime)
		if err != nil {
			return fmt.Errorf("休息 %d 的结束时间格式错误", i+1)
		}
		if !breakEnd.After(breakStart) {
			return fmt.Errorf("休息 %d 的结束时间必须晚于开始时间", i+1)
		}
	}

	return nil
}

// ValidateWeek 检查一周的草稿，草稿中的日期必须都属于 days
func ValidateWeek(days []string, shifts map[string]domain.Shift) error {
	for day, shift := range shifts {
		if !slices.Contains(days, day) {
			return fmt.Errorf("日期 %s 不在本周内", day)
		}
		if err := ValidateShift(&shift); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

func ValidateDoubleTimeRule(rule *domain.DoubleTimeRule) error {
	if rule.Weekday < 0 || rule.Weekday > 6 {
		return errors.New("星期必须在 0 到 6 之间，0 表示周日")
	}

	startTime, err := parseClock(rule.StartTime)
	if err != nil {
		return errors.New("开始时间格式错误")
	}
	endTime, err := parseClock(rule.EndTime)
	if err != nil {
		return errors.New("结束时间格式错误")
	}
	if !endTime.After(startTime) {
		return errors.New("结束时间必须晚于开始时间")
	}

	return nil
}

// ParseDateKey 解析 YYYY-MM-DD 格式的日期
func ParseDateKey(s string) (time.Time, error) {
	date, err := time.Parse(domain.DateKeyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期 %s 格式错误，应为 YYYY-MM-DD", s)
	}
	return date, nil
}
