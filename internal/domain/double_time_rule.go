package domain

import "time"

// DoubleTimeRule 表示每周固定的双倍工时时段
// Weekday 取值 0~6，0 表示周日
type DoubleTimeRule struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerID"`
	Weekday   int32     `json:"weekday"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}
