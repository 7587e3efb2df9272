package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActivityPackStarted     = "pack_started"
	ActivityPackCompleted   = "pack_completed"
	ActivityProgressUpdated = "progress_updated"
	ActivityChatInteraction = "chat_interaction"
	ActivityFileUploaded    = "file_uploaded"
)

// UserActivity 追加写入的行为日志，推荐逻辑的数据来源
// swagger:model UserActivity
type UserActivity struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string         `gorm:"type:varchar(36);not null;index" json:"userId"`
	ActivityType string         `gorm:"size:50;not null;index" json:"activityType"`
	EntityID     *uint          `json:"entityId"`
	Metadata     datatypes.JSON `json:"metadata"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}
