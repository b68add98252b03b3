package services

import (
	"context"
	"errors"

	"prediction-arena/internal/models"
	"prediction-arena/internal/utils"

	"gorm.io/gorm"
)

// UserService handles the optional, idempotent user registration.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register upserts a user by address. Re-registering updates the nickname
// when a new one is supplied; a missing nickname gets a generated one on
// first registration.
func (s *UserService) Register(ctx context.Context, address, nickname string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "user_address = ?", address).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if nickname == "" {
			generated, genErr := utils.GenerateNickname()
			if genErr != nil {
				return nil, genErr
			}
			nickname = generated
		}
		user = models.User{UserAddress: address, Nickname: nickname}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	if nickname != "" && nickname != user.Nickname {
		if err := s.db.WithContext(ctx).Model(&user).Update("nickname", nickname).Error; err != nil {
			return nil, err
		}
		user.Nickname = nickname
	}
	return &user, nil
}

// GetByAddress fetches a user by wallet address.
func (s *UserService) GetByAddress(ctx context.Context, address string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "user_address = ?", address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
