package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vetpharma/backend/internal/config"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/repository"
	"github.com/vetpharma/backend/internal/seed"
	"github.com/vetpharma/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var ownerID int64
	var weekStart string
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机员工及一周班表, 3: 插入随机库存, 4: 从 CSV 导入库存)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&ownerID, "owner-id", 0, "数据所属的用户 ID")
	flag.StringVar(&weekStart, "week-start", "", "班表开始日期 (YYYY-MM-DD)，默认为本周一")
	flag.StringVar(&file, "file", "", "要导入的库存 CSV 文件")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	// 除了插入用户以外，其余操作的数据都属于某个用户
	if op >= 2 && op <= 4 {
		if _, err := repo.GetUserByID(ownerID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的用户不存在", slog.Int64("owner_id", ownerID))
			default:
				slog.Error("无法获取用户", slog.String("error", err.Error()))
			}
			return
		}
	}

	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入用户成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		start := domain.MondayOf(time.Now())
		if weekStart != "" {
			start, err = utils.ParseDateKey(weekStart)
			if err != nil {
				slog.Error("开始日期不合法", slog.String("error", err.Error()))
				return
			}
		}
		days := domain.WeekDays(start)

		cnt := 0
		for i := 0; i < n; i++ {
			employee := &domain.RosterEmployee{
				OwnerID: ownerID,
				Name:    utils.GenerateRandomEmployeeName(),
			}
			if err := repo.CreateRosterEmployee(employee); err != nil {
				// 名字重复时直接跳过
				slog.Error("无法插入员工", slog.String("name", employee.Name), slog.String("error", err.Error()))
				continue
			}

			if err := repo.ReplaceWeek(employee.ID, days, utils.GenerateRandomWeek(days)); err != nil {
				slog.Error("无法插入班表", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入员工及班表成功", slog.Int("count", cnt), slog.String("week_start", days[0]))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的库存数量")
			return
		}

		categories, err := repo.GetInventoryCategories(ownerID)
		if err != nil {
			slog.Error("无法获取库存分类", slog.String("error", err.Error()))
			return
		}
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		if len(names) == 0 {
			names = append(names, "Allgemein")
			if err := repo.CreateInventoryCategory(&domain.InventoryCategory{OwnerID: ownerID, Name: "Allgemein"}); err != nil {
				slog.Error("无法插入库存分类", slog.String("error", err.Error()))
				return
			}
		}

		cnt := 0
		now := time.Now()
		for i := 0; i < n; i++ {
			if err := repo.CreateInventoryItem(utils.GenerateRandomInventoryItem(ownerID, names, now)); err != nil {
				slog.Error("无法插入库存", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入库存成功", slog.Int("count", cnt))
	case 4:
		if file == "" {
			slog.Error("请指定要导入的 CSV 文件")
			return
		}

		cnt, err := seed.ImportInventory(repo, file, ownerID)
		if err != nil {
			slog.Error("导入库存失败", slog.String("error", err.Error()))
			return
		}

		slog.Info("导入库存成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
