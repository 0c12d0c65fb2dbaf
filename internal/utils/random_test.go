package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/utils"
)

func TestGenerateRandomShiftIsValid(t *testing.T) {
	for range 100 {
		shift := utils.GenerateRandomShift()
		require.NoError(t, utils.ValidateShift(&shift))
		assert.True(t, shift.HasTimes())
	}
}

func TestGenerateRandomWeekIsValid(t *testing.T) {
	days := domain.WeekDays(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	for range 20 {
		require.NoError(t, utils.ValidateWeek(days, utils.GenerateRandomWeek(days)))
	}
}

func TestGenerateUsernameFromChineseName(t *testing.T) {
	username := utils.GenerateUsernameFromChineseName("王伟")
	assert.Regexp(t, `^w[a-z]*w[a-z]*[0-9]{1,3}$`, username)
}

func TestGenerateRandomArticleNumber(t *testing.T) {
	assert.Regexp(t, `^[A-Z]{2}-[0-9]{4}$`, utils.GenerateRandomArticleNumber())
}

func TestGenerateRandomInventoryItem(t *testing.T) {
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	item := utils.GenerateRandomInventoryItem(7, []string{"Antibiotika"}, now)

	assert.Equal(t, int64(7), item.OwnerID)
	assert.Equal(t, "Antibiotika", item.Category)
	assert.GreaterOrEqual(t, item.Stock, int32(0))
}

func TestGenerateRandomOTP(t *testing.T) {
	assert.Regexp(t, `^[0-9]{6}$`, utils.GenerateRandomOTP())
}
