package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/utils"
)

func TestValidateShift(t *testing.T) {
	cases := []struct {
		name    string
		shift   domain.Shift
		wantErr string
	}{
		{"只有备注", domain.Shift{Notes: "Urlaub"}, ""},
		{"正常班次", domain.Shift{StartTime: "08:00", EndTime: "16:00", Breaks: []domain.Break{{StartTime: "12:00", EndTime: "12:30"}}}, ""},
		{"重叠的休息", domain.Shift{StartTime: "08:00", EndTime: "16:00", Breaks: []domain.Break{{StartTime: "12:00", EndTime: "13:00"}, {StartTime: "12:30", EndTime: "13:30"}}}, ""},
		{"缺少结束时间", domain.Shift{StartTime: "08:00"}, "开始时间和结束时间必须同时填写"},
		{"时间格式错误", domain.Shift{StartTime: "8 Uhr", EndTime: "16:00"}, "开始时间格式错误"},
		{"结束早于开始", domain.Shift{StartTime: "16:00", EndTime: "08:00"}, "结束时间必须晚于开始时间"},
		{"开始等于结束", domain.Shift{StartTime: "08:00", EndTime: "08:00"}, "结束时间必须晚于开始时间"},
		{"休息时间倒置", domain.Shift{StartTime: "08:00", EndTime: "16:00", Breaks: []domain.Break{{StartTime: "13:00", EndTime: "12:00"}}}, "休息 1 的结束时间必须晚于开始时间"},
		{"没有上班时间却有休息", domain.Shift{Breaks: []domain.Break{{StartTime: "12:00", EndTime: "12:30"}}}, "没有上班时间的班次不能安排休息"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := utils.ValidateShift(&c.shift)
			if c.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, c.wantErr, err.Error())
		})
	}
}

func TestValidateWeek(t *testing.T) {
	days := []string{"2025-03-10", "2025-03-11"}

	assert.NoError(t, utils.ValidateWeek(days, map[string]domain.Shift{
		"2025-03-10": {StartTime: "08:00", EndTime: "16:00"},
	}))

	err := utils.ValidateWeek(days, map[string]domain.Shift{
		"2025-03-17": {StartTime: "08:00", EndTime: "16:00"},
	})
	require.Error(t, err)
	assert.Equal(t, "日期 2025-03-17 不在本周内", err.Error())

	err = utils.ValidateWeek(days, map[string]domain.Shift{
		"2025-03-11": {StartTime: "16:00", EndTime: "08:00"},
	})
	require.Error(t, err)
	assert.Equal(t, "2025-03-11: 结束时间必须晚于开始时间", err.Error())
}

func TestValidateDoubleTimeRule(t *testing.T) {
	assert.NoError(t, utils.ValidateDoubleTimeRule(&domain.DoubleTimeRule{Weekday: 5, StartTime: "18:00", EndTime: "22:00"}))
	assert.Error(t, utils.ValidateDoubleTimeRule(&domain.DoubleTimeRule{Weekday: 7, StartTime: "18:00", EndTime: "22:00"}))
	assert.Error(t, utils.ValidateDoubleTimeRule(&domain.DoubleTimeRule{Weekday: 0, StartTime: "22:00", EndTime: "18:00"}))
	assert.Error(t, utils.ValidateDoubleTimeRule(&domain.DoubleTimeRule{Weekday: 0, StartTime: "abends", EndTime: "22:00"}))
}

func TestParseDateKey(t *testing.T) {
	date, err := utils.ParseDateKey("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, date.Day())

	_, err = utils.ParseDateKey("10.03.2025")
	assert.Error(t, err)
}
