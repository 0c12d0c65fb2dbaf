package domain

import "time"

// 日期键的格式，例如 2025-03-10
const DateKeyLayout = "2006-01-02"

type RosterEmployee struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// Break 表示班次中不计薪的休息时段，时间格式为 HH:mm
type Break struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Shift 表示某个员工在某一天的班次
// StartTime 和 EndTime 都为空时表示只有备注、没有具体的上班时间
type Shift struct {
	StartTime string  `json:"startTime,omitempty"`
	EndTime   string  `json:"endTime,omitempty"`
	Notes     string  `json:"notes"`
	Breaks    []Break `json:"breaks"`
}

// HasTimes 判断班次是否同时设置了开始时间和结束时间
func (s Shift) HasTimes() bool {
	return s.StartTime != "" && s.EndTime != ""
}

// EmployeeWeek 是核算的基本单位：一个员工连续 7 天的班次
type EmployeeWeek struct {
	EmployeeID   int64            `json:"employeeID"`
	EmployeeName string           `json:"employeeName"`
	Days         []string         `json:"days"`   // 7 个 YYYY-MM-DD 日期键，按顺序排列
	Shifts       map[string]Shift `json:"shifts"` // 日期键 -> 班次，没有记录表示休息
}

// WeekDays 返回从 start 开始的连续 7 天的日期键
func WeekDays(start time.Time) []string {
	days := make([]string, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i).Format(DateKeyLayout)
	}
	return days
}

// MondayOf 返回 t 所在周的周一（零点）
func MondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}
