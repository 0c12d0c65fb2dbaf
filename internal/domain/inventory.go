package domain

import "time"

type InventoryItem struct {
	ID            int64      `json:"id"`
	OwnerID       int64      `json:"ownerID"`
	ArticleNumber string     `json:"articleNumber"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Stock         int32      `json:"stock"`
	MinStock      *int32     `json:"minStock"`
	Unit          string     `json:"unit"`
	Supplier      *string    `json:"supplier"`
	LastOrderedAt *time.Time `json:"lastOrderedAt"`
	Remarks       *string    `json:"remarks"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	AlarmDisabled bool       `json:"alarmDisabled"`
	CreatedAt     time.Time  `json:"createdAt"`
	Version       int32      `json:"-"`
}

type InventoryCategory struct {
	OwnerID int64  `json:"ownerID"`
	Name    string `json:"name"`
}

type InventoryAlertKind string

const (
	InventoryAlertExpiringSoon InventoryAlertKind = "expiring-soon"
	InventoryAlertBelowMinimum InventoryAlertKind = "below-minimum"
)

type InventoryAlert struct {
	ItemID        int64              `json:"itemID"`
	ArticleNumber string             `json:"articleNumber"`
	Name          string             `json:"name"`
	Kind          InventoryAlertKind `json:"kind"`
	Detail        string             `json:"detail"`
}
