package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-railbooking/internal/user/domain"
	"github.com/mateusmacedo/go-railbooking/pkg/application"
)

type gormUserRepository struct {
	db     *gorm.DB
	logger application.AppLogger
}

// NewGormUserRepository persiste os usuários em uma tabela; a lista de
// reservas vira uma coluna JSON serializada.
func NewGormUserRepository(db *gorm.DB, logger application.AppLogger) (domain.UserRepository, error) {
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return nil, err
	}

	return &gormUserRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to list users", err, nil)
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, userID string) (domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		application.LogError(ctx, r.logger, "failed to find user", err, map[string]interface{}{
			"user_id": userID,
		})
		return domain.User{}, err
	}
	return user, nil
}

func (r *gormUserRepository) FindByName(ctx context.Context, name string) (domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		application.LogError(ctx, r.logger, "failed to find user", err, map[string]interface{}{
			"name": name,
		})
		return domain.User{}, err
	}
	return user, nil
}

func (r *gormUserRepository) Save(ctx context.Context, user domain.User) error {
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to create user", err, map[string]interface{}{
			"user_id": user.UserID,
		})
		return err
	}
	return nil
}

func (r *gormUserRepository) Update(ctx context.Context, user domain.User) error {
	if _, err := r.FindByID(ctx, user.UserID); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to update user", err, map[string]interface{}{
			"user_id": user.UserID,
		})
		return err
	}
	return nil
}
