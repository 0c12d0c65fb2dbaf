package seed

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/repository"
)

const dateLayout = "02.01.2006"

// 与库存导出表格的表头一致，导出后另存为 CSV 即可重新导入
const (
	colArticleNumber = "Artikelnummer"
	colName          = "Bezeichnung"
	colCategory      = "Kategorie"
	colStock         = "Bestand"
	colMinStock      = "Mindestbestand"
	colUnit          = "Einheit"
	colSupplier      = "Lieferant"
	colLastOrdered   = "Letzte Bestellung"
	colRemarks       = "Bemerkungen"
	colExpires       = "Ablaufdatum"
)

var requiredColumns = []string{colArticleNumber, colName, colCategory, colStock, colUnit}

var ErrMissingColumn = errors.New("缺少必需的列")

// ParseInventoryCSV 解析库存 CSV，分隔符为逗号或分号（由表头决定）
func ParseInventoryCSV(r io.Reader, ownerID int64) ([]*domain.InventoryItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(data))
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	for _, col := range requiredColumns {
		if !slices.Contains(headers, col) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	items := make([]*domain.InventoryItem, 0)
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		line++

		record := make(map[string]string, len(headers))
		for i, value := range row {
			if i < len(headers) {
				record[headers[i]] = strings.TrimSpace(value)
			}
		}

		// 整行为空时跳过
		if strings.Join(row, "") == "" {
			continue
		}

		item, err := parseRecord(record, ownerID)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func parseRecord(record map[string]string, ownerID int64) (*domain.InventoryItem, error) {
	item := &domain.InventoryItem{
		OwnerID:       ownerID,
		ArticleNumber: record[colArticleNumber],
		Name:          record[colName],
		Category:      record[colCategory],
		Unit:          record[colUnit],
	}

	for _, col := range requiredColumns {
		if record[col] == "" {
			return nil, fmt.Errorf("%s 不能为空", col)
		}
	}

	stock, err := strconv.ParseInt(record[colStock], 10, 32)
	if err != nil || stock < 0 {
		return nil, fmt.Errorf("%s 必须是非负整数: %q", colStock, record[colStock])
	}
	item.Stock = int32(stock)

	if v := record[colMinStock]; v != "" {
		minStock, err := strconv.ParseInt(v, 10, 32)
		if err != nil || minStock < 0 {
			return nil, fmt.Errorf("%s 必须是非负整数: %q", colMinStock, v)
		}
		// 最低库存为 0 视为未设置
		if minStock > 0 {
			m := int32(minStock)
			item.MinStock = &m
		}
	}

	if v := record[colSupplier]; v != "" {
		item.Supplier = &v
	}
	if v := record[colRemarks]; v != "" {
		item.Remarks = &v
	}

	if item.LastOrderedAt, err = parseOptionalDate(colLastOrdered, record[colLastOrdered]); err != nil {
		return nil, err
	}
	if item.ExpiresAt, err = parseOptionalDate(colExpires, record[colExpires]); err != nil {
		return nil, err
	}

	return item, nil
}

func parseOptionalDate(col, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%s 格式错误，应为 DD.MM.YYYY: %q", col, v)
	}
	return &t, nil
}

// ImportInventory 从 CSV 文件导入库存，缺失的分类会一并创建
func ImportInventory(r *repository.Repository, path string, ownerID int64) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	items, err := ParseInventoryCSV(file, ownerID)
	if err != nil {
		return 0, err
	}

	existing, err := r.GetInventoryCategories(ownerID)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.Name] = true
	}

	for _, item := range items {
		if known[item.Category] {
			continue
		}
		if err := r.CreateInventoryCategory(&domain.InventoryCategory{OwnerID: ownerID, Name: item.Category}); err != nil {
			var pgErr *pgconn.PgError
			if !errors.As(err, &pgErr) || pgErr.ConstraintName != "inventory_categories_pkey" {
				return 0, err
			}
		}
		known[item.Category] = true
		slog.Info("已创建分类", "category", item.Category)
	}

	// 整批写入，任意一行冲突则全部回滚
	if err := r.CreateInventoryItems(items); err != nil {
		return 0, err
	}

	return len(items), nil
}
