package accounting

import (
	"slices"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

// 前端提交的是 HH:mm，数据库的 time 类型读出来可能带秒
var clockLayouts = []string{"15:04", "15:04:05"}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// interval 是同一天内的一个时间段，start 和 end 都是当天的钟点
type interval struct {
	start time.Time
	end   time.Time
}

func parseInterval(start, end string) (interval, bool) {
	s, ok := parseClock(start)
	if !ok {
		return interval{}, false
	}
	e, ok := parseClock(end)
	if !ok {
		return interval{}, false
	}
	return interval{start: s, end: e}, true
}

func (iv interval) hours() float64 {
	return iv.end.Sub(iv.start).Hours()
}

// clip 返回 iv 与 bound 的交集，第二个返回值表示交集是否非空
func (iv interval) clip(bound interval) (interval, bool) {
	start := iv.start
	if bound.start.After(start) {
		start = bound.start
	}
	end := iv.end
	if bound.end.Before(end) {
		end = bound.end
	}
	return interval{start: start, end: end}, start.Before(end)
}

// on 把钟点放到具体日期上，用于跨天比较
func (iv interval) on(date time.Time) (time.Time, time.Time) {
	at := func(clock time.Time) time.Time {
		return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
	}
	return at(iv.start), at(iv.end)
}

// sortedBreaks 解析休息时段并按开始时间排序，无法解析的休息直接忽略
func sortedBreaks(breaks []domain.Break) []interval {
	parsed := make([]interval, 0, len(breaks))
	for _, b := range breaks {
		iv, ok := parseInterval(b.StartTime, b.EndTime)
		if !ok {
			continue
		}
		parsed = append(parsed, iv)
	}
	slices.SortStableFunc(parsed, func(a, b interval) int {
		return a.start.Compare(b.start)
	})
	return parsed
}

// breakOverlap 计算休息时段落在 span 内的总时长
// 互相重叠的休息时段各自独立扣减，不做合并
func breakOverlap(span interval, breaks []interval) float64 {
	total := 0.0
	for _, b := range breaks {
		if overlap, ok := b.clip(span); ok {
			total += overlap.hours()
		}
	}
	return total
}
