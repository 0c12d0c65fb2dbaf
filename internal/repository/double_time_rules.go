package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

// GetDoubleTimeRules 按 ID 升序返回规则，同一天有多条规则时以第一条为准
func (r *Repository) GetDoubleTimeRules(ownerID int64) ([]domain.DoubleTimeRule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, weekday, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), created_at
		FROM double_time_rules
		WHERE owner_id = $1
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]domain.DoubleTimeRule, 0)
	for rows.Next() {
		rule := domain.DoubleTimeRule{OwnerID: ownerID}
		if err := rows.Scan(&rule.ID, &rule.Weekday, &rule.StartTime, &rule.EndTime, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

func (r *Repository) CreateDoubleTimeRule(rule *domain.DoubleTimeRule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO double_time_rules (owner_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	args := []any{rule.OwnerID, rule.Weekday, rule.StartTime, rule.EndTime}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt); err != nil {
		return err
	}

	return nil
}

// DeleteDoubleTimeRule 只能删除自己名下的规则，找不到时返回 sql.ErrNoRows
func (r *Repository) DeleteDoubleTimeRule(ownerID, id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM double_time_rules WHERE id = $1 AND owner_id = $2
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
