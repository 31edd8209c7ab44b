package db

import (
	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.SellerAccount{},
		&model.Tag{},
		&model.Product{},
		&model.TagView{},
		&model.Purchase{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs migrations against the given connection.
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the starter tag vocabulary when the tag table is empty.
func Seed() error {
	var count int64
	if err := DB.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Tags already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	titles := []string{"ebook", "template", "course", "audio", "photography", "design", "software"}
	for _, title := range titles {
		tag := model.Tag{Title: title}
		if err := DB.Where(model.Tag{Title: title}).FirstOrCreate(&tag).Error; err != nil {
			logger.Error("Failed to create tag", err, map[string]interface{}{
				"tag": title,
			})
			return err
		}
	}

	logger.Info("Tags seeded successfully", map[string]interface{}{
		"total_tags": len(titles),
	})
	return nil
}
