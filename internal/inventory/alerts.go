package inventory

import (
	"fmt"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

// 在有效期前多少个月开始提醒
const expiryWarningMonths = 2

// ExpiringSoon 判断物品是否会在 now 之后两个月内过期（已过期也算）
func ExpiringSoon(item *domain.InventoryItem, now time.Time) bool {
	if item.ExpiresAt == nil {
		return false
	}
	return !item.ExpiresAt.After(now.AddDate(0, expiryWarningMonths, 0))
}

// BelowMinimum 判断库存是否低于设置的最低库存
func BelowMinimum(item *domain.InventoryItem) bool {
	if item.MinStock == nil {
		return false
	}
	return item.Stock < *item.MinStock
}

// Alerts 汇总所有未关闭提醒的物品的过期和低库存提醒
func Alerts(items []*domain.InventoryItem, now time.Time) []domain.InventoryAlert {
	alerts := make([]domain.InventoryAlert, 0)

	for _, item := range items {
		if item.AlarmDisabled {
			continue
		}

		if ExpiringSoon(item, now) {
			alerts = append(alerts, domain.InventoryAlert{
				ItemID:        item.ID,
				ArticleNumber: item.ArticleNumber,
				Name:          item.Name,
				Kind:          domain.InventoryAlertExpiringSoon,
				Detail:        fmt.Sprintf("%s 将于 %s 过期", item.Name, item.ExpiresAt.Format("02.01.2006")),
			})
		}

		if BelowMinimum(item) {
			alerts = append(alerts, domain.InventoryAlert{
				ItemID:        item.ID,
				ArticleNumber: item.ArticleNumber,
				Name:          item.Name,
				Kind:          domain.InventoryAlertBelowMinimum,
				Detail:        fmt.Sprintf("%s 库存 %d %s，低于最低库存 %d %s", item.Name, item.Stock, item.Unit, *item.MinStock, item.Unit),
			})
		}
	}

	return alerts
}
