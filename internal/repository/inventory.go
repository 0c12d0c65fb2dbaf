package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vetpharma/backend/internal/domain"
)

const inventoryColumns = `
	id, owner_id, article_number, name, category, stock, min_stock, unit,
	supplier, last_ordered_at, remarks, expires_at, alarm_disabled, created_at, version
`

func inventoryDst(item *domain.InventoryItem) []any {
	return []any{
		&item.ID, &item.OwnerID, &item.ArticleNumber, &item.Name, &item.Category, &item.Stock, &item.MinStock, &item.Unit,
		&item.Supplier, &item.LastOrderedAt, &item.Remarks, &item.ExpiresAt, &item.AlarmDisabled, &item.CreatedAt, &item.Version,
	}
}

func (r *Repository) GetInventoryItems(ownerID int64) ([]*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE owner_id = $1 ORDER BY expires_at ASC NULLS LAST, name, id`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.InventoryItem, 0)
	for rows.Next() {
		item := &domain.InventoryItem{}
		if err := rows.Scan(inventoryDst(item)...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) GetInventoryItemByID(id int64) (*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1`

	item := &domain.InventoryItem{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(inventoryDst(item)...); err != nil {
		return nil, err
	}

	return item, nil
}

// *sql.DB 和 *sql.Tx 都满足这个接口
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertInventoryItem(ctx context.Context, q queryRower, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (
			owner_id, article_number, name, category, stock, min_stock, unit,
			supplier, last_ordered_at, remarks, expires_at, alarm_disabled
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, version
	`

	args := []any{
		item.OwnerID, item.ArticleNumber, item.Name, item.Category, item.Stock, item.MinStock, item.Unit,
		item.Supplier, item.LastOrderedAt, item.Remarks, item.ExpiresAt, item.AlarmDisabled,
	}
	return q.QueryRowContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt, &item.Version)
}

func (r *Repository) CreateInventoryItem(item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return insertInventoryItem(ctx, r.dbpool, item)
}

// CreateInventoryItems 在一个事务中批量导入库存，任何一条失败都会整体回滚
func (r *Repository) CreateInventoryItems(items []*domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if err := insertInventoryItem(ctx, tx, item); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateInventoryItem(item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE inventory_items
		SET
			article_number = $1,
			name = $2,
			category = $3,
			stock = $4,
			min_stock = $5,
			unit = $6,
			supplier = $7,
			last_ordered_at = $8,
			remarks = $9,
			expires_at = $10,
			alarm_disabled = $11,
			version = version + 1
		WHERE id = $12 AND version = $13
		RETURNING version
	`

	args := []any{
		item.ArticleNumber, item.Name, item.Category, item.Stock, item.MinStock, item.Unit,
		item.Supplier, item.LastOrderedAt, item.Remarks, item.ExpiresAt, item.AlarmDisabled,
		item.ID, item.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&item.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteInventoryItem(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM inventory_items WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetInventoryCategories(ownerID int64) ([]*domain.InventoryCategory, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name FROM inventory_categories WHERE owner_id = $1 ORDER BY name
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.InventoryCategory, 0)
	for rows.Next() {
		category := &domain.InventoryCategory{OwnerID: ownerID}
		if err := rows.Scan(&category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *Repository) CreateInventoryCategory(category *domain.InventoryCategory) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO inventory_categories (owner_id, name) VALUES ($1, $2)
	`

	if _, err := r.dbpool.ExecContext(ctx, query, category.OwnerID, category.Name); err != nil {
		return err
	}

	return nil
}
