package db

import (
	"errors"

	"github.com/ikkim/phonedesk-backend/config"
	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"github.com/ikkim/phonedesk-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&model.StoreGroup{},
		&model.Shop{},
		&model.Profile{},
		&model.ShopSettings{},
		&model.Invite{},
		&model.Consultation{},
		&model.ReportEntry{},
		&model.ReportUpload{},
		&model.SalarySnapshot{},
		&model.Notice{},
		&model.NoticeComment{},
		&model.CalendarTodo{},
		&model.CalendarLeave{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedSuperAdmin creates the bootstrap super_admin once. Missing credentials skip seeding.
func SeedSuperAdmin(db *gorm.DB, cfg *config.BootstrapConfig) error {
	if cfg.LoginID == "" || cfg.Password == "" {
		logger.Info("Bootstrap admin credentials not set, skipping super_admin seed")
		return nil
	}

	var existing model.Profile
	err := db.Where("login_id = ?", cfg.LoginID).First(&existing).Error
	if err == nil {
		logger.Info("Bootstrap super_admin already exists, skipping", map[string]interface{}{
			"login_id": cfg.LoginID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &model.Profile{
		Name:         cfg.Name,
		LoginID:      cfg.LoginID,
		PasswordHash: hash,
		Role:         model.RoleSuperAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		logger.Error("Failed to seed super_admin", err, map[string]interface{}{
			"login_id": cfg.LoginID,
		})
		return err
	}

	logger.Info("Bootstrap super_admin created", map[string]interface{}{
		"profile_id": admin.ID,
		"login_id":   admin.LoginID,
	})
	return nil
}
