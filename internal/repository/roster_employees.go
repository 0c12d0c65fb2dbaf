package repository

import (
	"context"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

func (r *Repository) GetRosterEmployees(ownerID int64) ([]*domain.RosterEmployee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, created_at, version
		FROM roster_employees
		WHERE owner_id = $1
		ORDER BY name, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.RosterEmployee, 0)
	for rows.Next() {
		employee := &domain.RosterEmployee{OwnerID: ownerID}
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.CreatedAt, &employee.Version); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetRosterEmployeeByID(id int64) (*domain.RosterEmployee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT owner_id, name, created_at, version
		FROM roster_employees WHERE id = $1
	`

	employee := &domain.RosterEmployee{ID: id}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&employee.OwnerID, &employee.Name, &employee.CreatedAt, &employee.Version); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) CreateRosterEmployee(employee *domain.RosterEmployee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO roster_employees (owner_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, employee.OwnerID, employee.Name).Scan(&employee.ID, &employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateRosterEmployee(employee *domain.RosterEmployee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE roster_employees
		SET
			name = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, employee.Name, employee.ID, employee.Version).Scan(&employee.Version); err != nil {
		return err
	}

	return nil
}

// DeleteRosterEmployee 删除员工，班次和休息通过外键级联删除
func (r *Repository) DeleteRosterEmployee(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM roster_employees WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
