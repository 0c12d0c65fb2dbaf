package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

// SearchMedications 按名称模糊搜索药品的存放位置，keyword 为空时返回全部
func (r *Repository) SearchMedications(keyword string) ([]*domain.Medication, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, location, created_at
		FROM medications
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
	`

	rows, err := r.dbpool.QueryContext(ctx, query, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	medications := make([]*domain.Medication, 0)
	for rows.Next() {
		medication := &domain.Medication{}
		if err := rows.Scan(&medication.ID, &medication.Name, &medication.Location, &medication.CreatedAt); err != nil {
			return nil, err
		}
		medications = append(medications, medication)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return medications, nil
}

func (r *Repository) CreateMedication(medication *domain.Medication) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO medications (name, location)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := r.dbpool.QueryRowContext(ctx, query, medication.Name, medication.Location).Scan(&medication.ID, &medication.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteMedication(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *Repository) GetMissingMedications(ownerID int64) ([]*domain.MissingMedication, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, description, species, group_name, missing_quantity, link, created_at
		FROM missing_medications
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	medications := make([]*domain.MissingMedication, 0)
	for rows.Next() {
		m := &domain.MissingMedication{OwnerID: ownerID}
		dst := []any{&m.ID, &m.Name, &m.Description, &m.Species, &m.Group, &m.MissingQuantity, &m.Link, &m.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		medications = append(medications, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return medications, nil
}

func (r *Repository) CreateMissingMedication(m *domain.MissingMedication) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO missing_medications (owner_id, name, description, species, group_name, missing_quantity, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	args := []any{m.OwnerID, m.Name, m.Description, m.Species, m.Group, m.MissingQuantity, m.Link}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return err
	}

	return nil
}

// DeleteMissingMedication 只能删除自己登记的缺药，找不到时返回 sql.ErrNoRows
func (r *Repository) DeleteMissingMedication(ownerID, id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM missing_medications WHERE id = $1 AND owner_id = $2
	`

	result, err := r.dbpool.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
