package model

import (
	"gorm.io/datatypes"
)

type PackDifficulty string

const (
	DifficultyBeginner     PackDifficulty = "beginner"
	DifficultyIntermediate PackDifficulty = "intermediate"
	DifficultyAdvanced     PackDifficulty = "advanced"
)

// LearningPack 学习包：一个自包含的学习内容单元
// Rating 存整数（星级×10），避免浮点列，展示端除以10
// swagger:model LearningPack
type LearningPack struct {
	BaseModel
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:100;index" json:"category"`
	Difficulty  PackDifficulty `gorm:"size:20" json:"difficulty"`
	Duration    int            `json:"duration"` // 分钟
	Rating      int            `json:"rating"`
	Content     datatypes.JSON `gorm:"not null" json:"content"`
	Tags        []string       `gorm:"serializer:json" json:"tags"`
	IsPublic    bool           `json:"isPublic"`
	AuthorID    string         `gorm:"type:varchar(36);index" json:"authorId"`
}

func (LearningPack) TableName() string {
	return "learning_packs"
}
