package domain

import "time"

// Medication 记录药房中某个药品的存放位置
type Medication struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

type MissingMedication struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"ownerID"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Species         string    `json:"species"` // 适用动物种类
	Group           string    `json:"group"`
	MissingQuantity int32     `json:"missingQuantity"`
	Link            string    `json:"link"`
	CreatedAt       time.Time `json:"createdAt"`
}
