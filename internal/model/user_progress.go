package model

import (
	"time"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
	StatusPaused     ProgressStatus = "paused"
)

// UserProgress 每个用户对每个学习包的进度状态，(user_id, pack_id) 按 upsert 约定唯一
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID         string         `gorm:"type:varchar(36);not null;index:idx_user_pack" json:"userId"`
	PackID         uint           `gorm:"not null;index:idx_user_pack" json:"packId"`
	Progress       int            `json:"progress"` // 0-100
	Status         ProgressStatus `gorm:"size:20" json:"status"`
	TimeSpent      int            `json:"timeSpent"` // 秒
	LastAccessedAt time.Time      `gorm:"index" json:"lastAccessedAt"`
	CompletedAt    *time.Time     `json:"completedAt"`
	Pack           *LearningPack  `gorm:"foreignKey:PackID" json:"pack,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
