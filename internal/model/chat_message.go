package model

import (
	"time"

	"gorm.io/datatypes"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatAction 助手建议的后续动作描述
type ChatAction struct {
	Type  string                 `json:"type"` // upload | save | export | navigate
	Label string                 `json:"label"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// ChatMetadata 助手消息附带的结构化元数据
type ChatMetadata struct {
	Suggestions []string     `json:"suggestions,omitempty"`
	Actions     []ChatAction `json:"actions,omitempty"`
}

// ChatMessage 用户聊天记录中的一轮消息，只写不改
// swagger:model ChatMessage
type ChatMessage struct {
	ID        uint                             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string                           `gorm:"type:varchar(36);not null;index:idx_chat_user_created" json:"userId"`
	Message   string                           `gorm:"type:text;not null" json:"message"`
	Role      ChatRole                         `gorm:"size:20;not null" json:"role"`
	PackID    *uint                            `gorm:"index" json:"packId"`
	Metadata  datatypes.JSONType[ChatMetadata] `json:"metadata"`
	CreatedAt time.Time                        `gorm:"index:idx_chat_user_created" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
