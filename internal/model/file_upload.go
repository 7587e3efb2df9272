package model

import (
	"time"

	"gorm.io/datatypes"
)

// FileUpload 直传对象存储后登记的上传元数据，只存路径不存字节
// swagger:model FileUpload
type FileUpload struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string         `gorm:"type:varchar(36);not null;index" json:"userId"`
	Filename     string         `gorm:"size:255;not null" json:"filename"`
	OriginalName string         `gorm:"size:255;not null" json:"originalName"`
	FileType     string         `gorm:"size:100" json:"fileType"`
	FileSize     int64          `json:"fileSize"`
	ObjectPath   string         `gorm:"type:text;not null" json:"objectPath"`
	Metadata     datatypes.JSON `json:"metadata"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (FileUpload) TableName() string {
	return "file_uploads"
}
