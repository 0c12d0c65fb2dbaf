package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/utils"
)

func (h *Handler) GetDoubleTimeRules(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rules, err := h.repository.GetDoubleTimeRules(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取双倍工时规则成功", rules)
}

func (h *Handler) CreateDoubleTimeRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weekday   *int32 `json:"weekday" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
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

	rule := &domain.DoubleTimeRule{
		OwnerID:   ownerID,
		Weekday:   *req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := utils.ValidateDoubleTimeRule(rule); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateDoubleTimeRule(rule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建双倍工时规则成功", rule)
}

func (h *Handler) DeleteDoubleTimeRule(w http.ResponseWriter, r *http.Request) {
	ruleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "规则ID无效")
		return
	}

	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.DeleteDoubleTimeRule(ownerID, ruleID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "规则不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除双倍工时规则成功", nil)
}
