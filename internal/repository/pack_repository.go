package repository

import (
	"strings"

	"learnpack_backend/internal/model"

	"gorm.io/gorm"
)

// PackFilter 学习包列表的筛选与分页条件
type PackFilter struct {
	Category   string
	Difficulty string
	Search     string
	Limit      int
	Offset     int
}

type PackRepository struct {
	DB *gorm.DB
}

func NewPackRepository(db *gorm.DB) *PackRepository {
	return &PackRepository{DB: db}
}

// List 只返回公开的学习包，search 对标题和描述做大小写不敏感匹配，新建在前
func (r *PackRepository) List(filter PackFilter) ([]model.LearningPack, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := r.DB.Model(&model.LearningPack{}).Where("is_public = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}

	var packs []model.LearningPack
	err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&packs).Error
	return packs, err
}

func (r *PackRepository) FindByID(id uint) (*model.LearningPack, error) {
	var pack model.LearningPack
	err := r.DB.First(&pack, id).Error
	if err != nil {
		return nil, err
	}
	return &pack, nil
}

func (r *PackRepository) Create(pack *model.LearningPack) error {
	return r.DB.Create(pack).Error
}

func (r *PackRepository) Update(pack *model.LearningPack) error {
	return r.DB.Save(pack).Error
}

// Delete 返回是否真的删掉了一行
func (r *PackRepository) Delete(id uint) (bool, error) {
	res := r.DB.Delete(&model.LearningPack{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CategoriesByIDs 查出给定公开学习包的去重分类列表
func (r *PackRepository) CategoriesByIDs(ids []uint) ([]string, error) {
	var categories []string
	err := r.DB.Model(&model.LearningPack{}).
		Where("is_public = ? AND id IN ?", true, ids).
		Distinct().
		Pluck("category", &categories).Error
	return categories, err
}

// TopRated 冷启动兜底：全局评分最高的公开学习包
func (r *PackRepository) TopRated(limit int) ([]model.LearningPack, error) {
	var packs []model.LearningPack
	err := r.DB.Where("is_public = ?", true).
		Order("rating DESC").
		Limit(limit).
		Find(&packs).Error
	return packs, err
}

// ByCategoriesExcluding 按分类命中且排除已完成的公开学习包，评分降序
func (r *PackRepository) ByCategoriesExcluding(categories []string, excludeIDs []uint, limit int) ([]model.LearningPack, error) {
	var packs []model.LearningPack
	err := r.DB.Where("is_public = ? AND category IN ? AND id NOT IN ?", true, categories, excludeIDs).
		Order("rating DESC").
		Limit(limit).
		Find(&packs).Error
	return packs, err
}
