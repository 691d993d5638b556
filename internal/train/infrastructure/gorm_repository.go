package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-railbooking/internal/train/domain"
	"github.com/mateusmacedo/go-railbooking/pkg/application"
)

type gormTrainRepository struct {
	db     *gorm.DB
	logger application.AppLogger
}

// NewGormTrainRepository persiste a coleção de trens em uma tabela; a grade de
// assentos e a rota viram colunas JSON serializadas.
func NewGormTrainRepository(db *gorm.DB, logger application.AppLogger) (domain.TrainRepository, error) {
	if err := db.AutoMigrate(&domain.Train{}); err != nil {
		return nil, err
	}

	return &gormTrainRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTrainRepository) FindAll(ctx context.Context) ([]domain.Train, error) {
	var trains []domain.Train
	if err := r.db.WithContext(ctx).Find(&trains).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to list trains", err, nil)
		return nil, err
	}
	return trains, nil
}

func (r *gormTrainRepository) FindByID(ctx context.Context, trainID string) (domain.Train, error) {
	var train domain.Train
	err := r.db.WithContext(ctx).Where("lower(train_id) = lower(?)", trainID).First(&train).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Train{}, domain.ErrTrainNotFound
	}
	if err != nil {
		application.LogError(ctx, r.logger, "failed to find train", err, map[string]interface{}{
			"train_id": trainID,
		})
		return domain.Train{}, err
	}
	return train, nil
}

func (r *gormTrainRepository) SearchRoutes(ctx context.Context, source, destination string) ([]domain.Train, error) {
	trains, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []domain.Train{}
	for _, train := range trains {
		if train.HasRoute(source, destination) {
			matches = append(matches, train)
		}
	}
	return matches, nil
}

func (r *gormTrainRepository) Save(ctx context.Context, train domain.Train) error {
	existing, err := r.FindByID(ctx, train.TrainID)
	if err != nil && !errors.Is(err, domain.ErrTrainNotFound) {
		return err
	}

	if err == nil {
		// preserva a forma gravada do identificador
		train.TrainID = existing.TrainID
		if err := r.db.WithContext(ctx).Save(&train).Error; err != nil {
			application.LogError(ctx, r.logger, "failed to update train", err, map[string]interface{}{
				"train_id": train.TrainID,
			})
			return err
		}
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&train).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to create train", err, map[string]interface{}{
			"train_id": train.TrainID,
		})
		return err
	}
	return nil
}

func (r *gormTrainRepository) UpdateSeats(ctx context.Context, train domain.Train) error {
	existing, err := r.FindByID(ctx, train.TrainID)
	if errors.Is(err, domain.ErrTrainNotFound) {
		r.logger.Error(ctx, "warning: seat update for a train not in the collection", map[string]interface{}{
			"train_id": train.TrainID,
		})
		return nil
	}
	if err != nil {
		return err
	}

	train.TrainID = existing.TrainID
	if err := r.db.WithContext(ctx).Save(&train).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to update seats", err, map[string]interface{}{
			"train_id": train.TrainID,
		})
		return err
	}

	application.LogInfo(ctx, r.logger, "seats updated", map[string]interface{}{"train_id": train.TrainID})
	return nil
}
