package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vetpharma/backend/internal/domain"
)

func (h *Handler) SearchMedications(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))

	medications, err := h.repository.SearchMedications(keyword)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "搜索药品成功", medications)
}

func (h *Handler) CreateMedication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required"`
		Location string `json:"location" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	medication := &domain.Medication{Name: req.Name, Location: req.Location}
	if err := h.repository.CreateMedication(medication); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "medications_name_key":
			h.errorResponse(w, r, "药品已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "添加药品成功", medication)
}

func (h *Handler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	medicationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "药品ID无效")
		return
	}

	if err := h.repository.DeleteMedication(medicationID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "药品不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除药品成功", nil)
}

func (h *Handler) GetMissingMedications(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	medications, err := h.repository.GetMissingMedications(ownerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取缺药列表成功", medications)
}

func (h *Handler) CreateMissingMedication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name" validate:"required"`
		Description     string `json:"description"`
		Species         string `json:"species"`
		Group           string `json:"group"`
		MissingQuantity int32  `json:"missingQuantity" validate:"required,gt=0"`
		Link            string `json:"link" validate:"omitempty,url"`
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

	medication := &domain.MissingMedication{
		OwnerID:         ownerID,
		Name:            req.Name,
		Description:     req.Description,
		Species:         req.Species,
		Group:           req.Group,
		MissingQuantity: req.MissingQuantity,
		Link:            req.Link,
	}
	if err := h.repository.CreateMissingMedication(medication); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "登记缺药成功", medication)
}

func (h *Handler) DeleteMissingMedication(w http.ResponseWriter, r *http.Request) {
	medicationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "缺药记录ID无效")
		return
	}

	ownerID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.DeleteMissingMedication(ownerID, medicationID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "缺药记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除缺药记录成功", nil)
}
