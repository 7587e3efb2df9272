package repository

import (
	"errors"
	"time"

	"learnpack_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert 按 ID 插入或更新，身份提供方每次回调都会刷新资料和 updated_at
func (r *UserRepository) Upsert(user *model.User) (*model.User, error) {
	var existing model.User
	err := r.DB.Where("id = ?", user.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		if err := r.DB.Create(user).Error; err != nil {
			return nil, err
		}
		return user, nil
	} else if err != nil {
		return nil, err
	}

	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.ProfileImageURL = user.ProfileImageURL
	existing.UpdatedAt = time.Now()
	if err := r.DB.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
