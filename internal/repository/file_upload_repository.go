package repository

import (
	"learnpack_backend/internal/model"

	"gorm.io/gorm"
)

type FileUploadRepository struct {
	DB *gorm.DB
}

func NewFileUploadRepository(db *gorm.DB) *FileUploadRepository {
	return &FileUploadRepository{DB: db}
}

func (r *FileUploadRepository) Create(upload *model.FileUpload) error {
	return r.DB.Create(upload).Error
}

func (r *FileUploadRepository) FindByID(id uint) (*model.FileUpload, error) {
	var upload model.FileUpload
	err := r.DB.First(&upload, id).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *FileUploadRepository) FindByObjectPath(objectPath string) (*model.FileUpload, error) {
	var upload model.FileUpload
	err := r.DB.Where("object_path = ?", objectPath).First(&upload).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *FileUploadRepository) ListByUser(userID string) ([]model.FileUpload, error) {
	var uploads []model.FileUpload
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	return uploads, err
}
