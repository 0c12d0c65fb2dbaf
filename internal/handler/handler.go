package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/vetpharma/backend/internal/accounting"
	"github.com/vetpharma/backend/internal/config"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/vetpharma/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	limits      accounting.Limits
	now         func() time.Time

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		limits: accounting.Limits{
			MaxHoursWithoutBreak: cfg.Compliance.MaxHoursWithoutBreak,
			MaxWeeklyHours:       cfg.Compliance.MaxWeeklyHours,
			MaxShiftHours:        cfg.Compliance.MaxShiftHours,
			MinRestHours:         cfg.Compliance.MinRestHours,
		},
		now: time.Now,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}))

	managerOnly := h.RequiredRole([]domain.Role{domain.RoleManager})
	pharmacyStaff := h.RequiredRole([]domain.Role{domain.RolePharmacist, domain.RoleManager})

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(managerOnly).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(managerOnly).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(managerOnly).Delete("/", h.DeleteUser)
				r.With(managerOnly).Patch("/password", h.UpdateUserPassword)
			})
		})

		// 排班表中的员工和班次都只属于当前登录的用户
		r.Route("/roster-employees", func(r chi.Router) {
			r.Get("/", h.GetRosterEmployees)
			r.Post("/", h.CreateRosterEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.rosterEmployee)
				r.Get("/", h.GetRosterEmployee)
				r.Patch("/", h.UpdateRosterEmployee)
				r.Delete("/", h.DeleteRosterEmployee)
				r.Get("/shifts", h.GetEmployeeWeek)
				r.Put("/shifts/{date}", h.SaveShift)
				r.Delete("/shifts/{date}", h.DeleteShift)
				r.Put("/week", h.ReplaceWeek)
			})
		})

		r.Route("/double-time-rules", func(r chi.Router) {
			r.Get("/", h.GetDoubleTimeRules)
			r.Post("/", h.CreateDoubleTimeRule)
			r.Delete("/{id}", h.DeleteDoubleTimeRule)
		})

		r.Route("/compliance", func(r chi.Router) {
			r.Get("/", h.GetCompliance)
			r.Post("/preview", h.PreviewCompliance)
			r.With(h.myInfo).Post("/report", h.SendComplianceReport)
		})

		r.Get("/rosters/export", h.ExportRoster)

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.GetInventoryItems)
			r.Post("/", h.CreateInventoryItem)
			r.Get("/alerts", h.GetInventoryAlerts)
			r.With(h.myInfo).Post("/alerts/notify", h.NotifyInventoryAlerts)
			r.Get("/export", h.ExportInventory)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.inventoryItem)
				r.Patch("/", h.UpdateInventoryItem)
				r.Delete("/", h.DeleteInventoryItem)
			})
		})

		r.Route("/inventory-categories", func(r chi.Router) {
			r.Get("/", h.GetInventoryCategories)
			r.Post("/", h.CreateInventoryCategory)
		})

		// 药品存放位置是全店共享的，只有药剂师和店长可以修改
		r.Route("/medications", func(r chi.Router) {
			r.Get("/", h.SearchMedications)
			r.With(pharmacyStaff).Post("/", h.CreateMedication)
			r.With(pharmacyStaff).Delete("/{id}", h.DeleteMedication)
		})

		r.Route("/missing-medications", func(r chi.Router) {
			r.Get("/", h.GetMissingMedications)
			r.Post("/", h.CreateMissingMedication)
			r.Delete("/{id}", h.DeleteMissingMedication)
		})
	})
}
