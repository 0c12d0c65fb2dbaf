package handler

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/export"
	"github.com/vetpharma/backend/internal/inventory"
	"github.com/vetpharma/backend/internal/utils"
)

// optionalDate 把 YYYY-MM-DD 解析为日期，空字符串表示清空
func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	date, err := utils.ParseDateKey(s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// 最低库存为 0 时不会触发提醒，按未设置处理
func optionalMinStock(n int32) *int32 {
	if n == 0 {
		return nil
	}
	return &n
}

func (h *Handler) inventoryConflict(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.ConstraintName == "inventory_items_owner_article_number_key":
		h.errorResponse(w, r, "货号已存在")
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "库存已被修改，请刷新后重试")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) GetInventoryItems(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	items, err := h.repository.GetInventoryItems(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取库存成功", items)
}

func (h *Handler) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArticleNumber string `json:"articleNumber" validate:"required"`
		Name          string `json:"name" validate:"required"`
		Category      string `json:"category" validate:"required"`
		Stock         *int32 `json:"stock" validate:"required,gte=0"`
		MinStock      int32  `json:"minStock" validate:"gte=0"`
		Unit          string `json:"unit" validate:"required"`
		Supplier      string `json:"supplier"`
		LastOrderedAt string `json:"lastOrderedAt"`
		Remarks       string `json:"remarks"`
		ExpiresAt     string `json:"expiresAt"`
		AlarmDisabled bool   `json:"alarmDisabled"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	lastOrderedAt, err := optionalDate(req.LastOrderedAt)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	expiresAt, err := optionalDate(req.ExpiresAt)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	item := &domain.InventoryItem{
		OwnerID:       ownerID,
		ArticleNumber: req.ArticleNumber,
		Name:          req.Name,
		Category:      req.Category,
		Stock:         *req.Stock,
		MinStock:      optionalMinStock(req.MinStock),
		Unit:          req.Unit,
		Supplier:      optionalString(req.Supplier),
		LastOrderedAt: lastOrderedAt,
		Remarks:       optionalString(req.Remarks),
		ExpiresAt:     expiresAt,
		AlarmDisabled: req.AlarmDisabled,
	}

	if err := h.repository.CreateInventoryItem(item); err != nil {
		h.inventoryConflict(w, r, err)
		return
	}

	h.successResponse(w, r, "创建库存成功", item)
}

// UpdateInventoryItem 只修改请求中出现的字段，可选字段传空字符串表示清空
func (h *Handler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArticleNumber *string `json:"articleNumber" validate:"omitnil,min=1"`
		Name          *string `json:"name" validate:"omitnil,min=1"`
		Category      *string `json:"category" validate:"omitnil,min=1"`
		Stock         *int32  `json:"stock" validate:"omitnil,gte=0"`
		MinStock      *int32  `json:"minStock" validate:"omitnil,gte=0"`
		Unit          *string `json:"unit" validate:"omitnil,min=1"`
		Supplier      *string `json:"supplier"`
		LastOrderedAt *string `json:"lastOrderedAt"`
		Remarks       *string `json:"remarks"`
		ExpiresAt     *string `json:"expiresAt"`
		AlarmDisabled *bool   `json:"alarmDisabled"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	item := r.Context().Value(InventoryItemCtx).(*domain.InventoryItem)

	if req.ArticleNumber != nil {
		item.ArticleNumber = *req.ArticleNumber
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if req.MinStock != nil {
		item.MinStock = optionalMinStock(*req.MinStock)
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Supplier != nil {
		item.Supplier = optionalString(*req.Supplier)
	}
	if req.Remarks != nil {
		item.Remarks = optionalString(*req.Remarks)
	}
	if req.AlarmDisabled != nil {
		item.AlarmDisabled = *req.AlarmDisabled
	}
	if req.LastOrderedAt != nil {
		lastOrderedAt, err := optionalDate(*req.LastOrderedAt)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		item.LastOrderedAt = lastOrderedAt
	}
	if req.ExpiresAt != nil {
		expiresAt, err := optionalDate(*req.ExpiresAt)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		item.ExpiresAt = expiresAt
	}

	if err := h.repository.UpdateInventoryItem(item); err != nil {
		h.inventoryConflict(w, r, err)
		return
	}

	h.successResponse(w, r, "更新库存成功", item)
}

func (h *Handler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(InventoryItemCtx).(*domain.InventoryItem)

	if err := h.repository.DeleteInventoryItem(item.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除库存成功", nil)
}

func (h *Handler) inventoryAlerts(r *http.Request) ([]domain.InventoryAlert, error) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		return nil, err
	}

	items, err := h.repository.GetInventoryItems(ownerID)
	if err != nil {
		return nil, err
	}

	return inventory.Alerts(items, h.now()), nil
}

func (h *Handler) GetInventoryAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.inventoryAlerts(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取库存提醒成功", alerts)
}

// NotifyInventoryAlerts 把当前的库存提醒通过邮件发给当前用户，没有提醒时不发送
func (h *Handler) NotifyInventoryAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.inventoryAlerts(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if len(alerts) == 0 {
		h.successResponse(w, r, "没有需要提醒的库存", alerts)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if err := h.publishMail(domain.MailMessage{
		Type: domain.MailTypeInventoryAlert,
		To:   myInfo.Email,
		Data: domain.InventoryAlertMailData{
			FullName: myInfo.FullName,
			Alerts:   alerts,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "库存提醒已通过邮件发送", alerts)
}

func (h *Handler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	items, err := h.repository.GetInventoryItems(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	buf := &bytes.Buffer{}
	if err := export.WriteInventory(buf, items); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeXLSX(w, r, fmt.Sprintf("Inventar_%s.xlsx", h.now().Format(domain.DateKeyLayout)), buf)
}

func (h *Handler) GetInventoryCategories(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	categories, err := h.repository.GetInventoryCategories(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分类成功", categories)
}

func (h *Handler) CreateInventoryCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	category := &domain.InventoryCategory{OwnerID: ownerID, Name: req.Name}
	if err := h.repository.CreateInventoryCategory(category); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "inventory_categories_pkey":
			h.errorResponse(w, r, "分类已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建分类成功", category)
}
