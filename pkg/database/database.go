package database

import (
	"fmt"
	"log"

	"learnpack_backend/internal/config"
	"learnpack_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.LearningPack{},
		&model.UserProgress{},
		&model.ChatMessage{},
		&model.UserActivity{},
		&model.FileUpload{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 初次启动时塞入默认学习包，避免空目录冷启动
	var count int64
	db.Model(&model.LearningPack{}).Count(&count)
	if count == 0 {
		starterPacks := []model.LearningPack{
			{
				Title:       "JavaScript 入门",
				Description: "变量、函数与控制流，移动端碎片时间即可完成",
				Category:    "javascript",
				Difficulty:  model.DifficultyBeginner,
				Duration:    45,
				Rating:      46,
				Content:     datatypes.JSON([]byte(`{"sections":[{"title":"变量与类型"},{"title":"函数"},{"title":"控制流"}]}`)),
				Tags:        []string{"javascript", "basics"},
				IsPublic:    true,
			},
			{
				Title:       "React 组件思维",
				Description: "从组件拆分到状态提升的实战路径",
				Category:    "react",
				Difficulty:  model.DifficultyIntermediate,
				Duration:    60,
				Rating:      48,
				Content:     datatypes.JSON([]byte(`{"sections":[{"title":"组件与 props"},{"title":"状态管理"},{"title":"Hooks"}]}`)),
				Tags:        []string{"react", "frontend"},
				IsPublic:    true,
			},
			{
				Title:       "SQL 查询基础",
				Description: "SELECT、JOIN 与聚合，配套练习数据集",
				Category:    "database",
				Difficulty:  model.DifficultyBeginner,
				Duration:    50,
				Rating:      44,
				Content:     datatypes.JSON([]byte(`{"sections":[{"title":"SELECT"},{"title":"JOIN"},{"title":"聚合"}]}`)),
				Tags:        []string{"sql", "database"},
				IsPublic:    true,
			},
		}
		for i := range starterPacks {
			db.Create(&starterPacks[i])
		}
	}

	return db, nil
}
