package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

type shiftRow struct {
	EmployeeID int64
	Date       time.Time
	StartTime  sql.NullString
	EndTime    sql.NullString
	Notes      string

	BreakStart sql.NullString
	BreakEnd   sql.NullString
}

// 时间列统一按 HH:mm 读出
const shiftColumns = `
	s.employee_id,
	s.date,
	to_char(s.start_time, 'HH24:MI'),
	to_char(s.end_time, 'HH24:MI'),
	s.notes,
	to_char(b.start_time, 'HH24:MI'),
	to_char(b.end_time, 'HH24:MI')
`

// scanShifts 把联表查询的结果组装成 employeeID -> 日期键 -> 班次
// 结果必须按员工、日期、休息顺序排好
func scanShifts(rows *sql.Rows) (map[int64]map[string]domain.Shift, error) {
	result := make(map[int64]map[string]domain.Shift)

	for rows.Next() {
		var row shiftRow
		dst := []any{&row.EmployeeID, &row.Date, &row.StartTime, &row.EndTime, &row.Notes, &row.BreakStart, &row.BreakEnd}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		days, exists := result[row.EmployeeID]
		if !exists {
			days = make(map[string]domain.Shift)
			result[row.EmployeeID] = days
		}

		key := row.Date.Format(domain.DateKeyLayout)
		shift, exists := days[key]
		if !exists {
			shift = domain.Shift{
				StartTime: row.StartTime.String,
				EndTime:   row.EndTime.String,
				Notes:     row.Notes,
				Breaks:    make([]domain.Break, 0),
			}
		}

		// 没有休息的班次在 LEFT JOIN 后休息列为空
		if row.BreakStart.Valid && row.BreakEnd.Valid {
			shift.Breaks = append(shift.Breaks, domain.Break{
				StartTime: row.BreakStart.String,
				EndTime:   row.BreakEnd.String,
			})
		}

		days[key] = shift
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// GetShiftsBetween 获取某个用户名下所有员工在 [from, to] 之间的班次
func (r *Repository) GetShiftsBetween(ownerID int64, from, to string) (map[int64]map[string]domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN roster_employees e ON e.id = s.employee_id
		LEFT JOIN shift_breaks b ON b.employee_id = s.employee_id AND b.date = s.date
		WHERE e.owner_id = $1 AND s.date BETWEEN $2 AND $3
		ORDER BY s.employee_id, s.date, b.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShifts(rows)
}

// GetEmployeeShifts 获取单个员工在 [from, to] 之间的班次
func (r *Repository) GetEmployeeShifts(employeeID int64, from, to string) (map[string]domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		LEFT JOIN shift_breaks b ON b.employee_id = s.employee_id AND b.date = s.date
		WHERE s.employee_id = $1 AND s.date BETWEEN $2 AND $3
		ORDER BY s.date, b.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result, err := scanShifts(rows)
	if err != nil {
		return nil, err
	}

	if shifts, ok := result[employeeID]; ok {
		return shifts, nil
	}
	return make(map[string]domain.Shift), nil
}

func nullableTime(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func insertShift(ctx context.Context, tx *sql.Tx, employeeID int64, date string, shift domain.Shift) error {
	query := `
		INSERT INTO shifts (employee_id, date, start_time, end_time, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			notes = EXCLUDED.notes
	`
	args := []any{employeeID, date, nullableTime(shift.StartTime), nullableTime(shift.EndTime), shift.Notes}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	query = `DELETE FROM shift_breaks WHERE employee_id = $1 AND date = $2`
	if _, err := tx.ExecContext(ctx, query, employeeID, date); err != nil {
		return err
	}

	for i, b := range shift.Breaks {
		query = `
			INSERT INTO shift_breaks (employee_id, date, position, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, employeeID, date, i, b.StartTime, b.EndTime); err != nil {
			return err
		}
	}

	return nil
}

// SaveShift 提交某个员工某一天的班次，已有的班次和休息会被覆盖
func (r *Repository) SaveShift(employeeID int64, date string, shift domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertShift(ctx, tx, employeeID, date, shift); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShift(employeeID int64, date string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM shifts WHERE employee_id = $1 AND date = $2
	`

	if _, err := r.dbpool.ExecContext(ctx, query, employeeID, date); err != nil {
		return err
	}

	return nil
}

// ReplaceWeek 用草稿整体替换一个员工一周的班次
// days 必须是连续的日期键，草稿中没有的日期视为休息
func (r *Repository) ReplaceWeek(employeeID int64, days []string, shifts map[string]domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM shifts WHERE employee_id = $1 AND date BETWEEN $2 AND $3`
	if _, err := tx.ExecContext(ctx, query, employeeID, days[0], days[len(days)-1]); err != nil {
		return err
	}

	for _, day := range days {
		shift, ok := shifts[day]
		if !ok {
			continue
		}
		if err := insertShift(ctx, tx, employeeID, day, shift); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
