package repositories

import (
	"context"
	"fmt"
	"kings-admin/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DecisionRepository struct {
	db *gorm.DB
}

func NewDecisionRepository(db *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Migrate создаёт таблицы журнала
func (r *DecisionRepository) Migrate() error {
	return r.db.AutoMigrate(&models.Decision{}, &models.LatestDecision{})
}

// Record добавляет запись в журнал и обновляет последнее решение по пользователю
func (r *DecisionRepository) Record(ctx context.Context, decision *models.Decision) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(decision).Error; err != nil {
			return fmt.Errorf("ошибка записи решения: %w", err)
		}

		latest := models.LatestDecision{
			UserID: decision.UserID,
			Action: decision.Action,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "updated_at"}),
		}).Create(&latest).Error
		if err != nil {
			return fmt.Errorf("ошибка обновления последнего решения: %w", err)
		}
		return nil
	})
}

// GetByUserID получает последнее решение по пользователю
func (r *DecisionRepository) GetByUserID(ctx context.Context, userID string) (*models.LatestDecision, error) {
	var latest models.LatestDecision
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&latest).Error
	if err != nil {
		return nil, err
	}
	return &latest, nil
}

// GetStats считает решения по типам
func (r *DecisionRepository) GetStats(ctx context.Context) (models.DecisionStats, error) {
	var stats models.DecisionStats
	db := r.db.WithContext(ctx).Model(&models.Decision{})

	if err := db.Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	counters := []struct {
		action models.Action
		dst    *int64
	}{
		{models.ActionApprove, &stats.Approved},
		{models.ActionReject, &stats.Rejected},
		{models.ActionDelete, &stats.Deleted},
	}
	for _, c := range counters {
		err := r.db.WithContext(ctx).Model(&models.Decision{}).Where("action = ?", c.action).Count(c.dst).Error
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// GetPaginated получает записи журнала с пагинацией, новые сверху
func (r *DecisionRepository) GetPaginated(ctx context.Context, page, perPage int) ([]models.Decision, int64, error) {
	var decisions []models.Decision
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Decision{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	err := r.db.WithContext(ctx).Order("id desc").Offset(offset).Limit(perPage).Find(&decisions).Error
	return decisions, total, err
}
