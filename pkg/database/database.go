package database

import (
	"fmt"
	"log"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/model"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 需要自动迁移的全部表
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.SkillPath{},
		&model.PlannerTask{},
		&model.Quiz{},
		&model.Question{},
		&model.UserQuizAttempt{},
		&model.UserHistory{},
		&model.TimeTracking{},
		&model.ProgressEntry{},
	}
}

// Dialector 根据配置选择数据库驱动；未配置 PostgreSQL 时回退到本地 SQLite
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	if cfg.URL != "" {
		switch {
		case strings.HasPrefix(cfg.URL, "postgres://"), strings.HasPrefix(cfg.URL, "postgresql://"):
			return postgres.Open(cfg.URL), nil
		case strings.HasPrefix(cfg.URL, "mysql://"):
			return mysql.Open(strings.TrimPrefix(cfg.URL, "mysql://")), nil
		case strings.HasPrefix(cfg.URL, "sqlite://"):
			return sqlite.Open(strings.TrimPrefix(cfg.URL, "sqlite://")), nil
		}
		return nil, fmt.Errorf("unsupported database url scheme: %s", cfg.URL)
	}

	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.Charset, cfg.ParseTime)
		return mysql.Open(dsn), nil
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "mapmyroute.db"
		}
		return sqlite.Open(path), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
}

func InitDB(cfg *config.DatabaseConfig, mode string, migrate bool) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Info
	if mode == "release" {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if mode != "release" || migrate {
		if err := db.AutoMigrate(Models()...); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	if err := seedQuizzes(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedQuizzes 题库为空时插入一套通用的每周挑战
func seedQuizzes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Quiz{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	quiz := model.Quiz{
		Title:       "Weekly Challenge",
		Description: "A quick check of core programming concepts.",
		Questions: []model.Question{
			{
				QuestionText:  "Which data structure works on a first-in, first-out basis?",
				Options:       []string{"A) Stack", "B) Queue", "C) Tree", "D) Graph"},
				CorrectOption: "B",
				SkillTag:      "programming",
			},
			{
				QuestionText:  "What does HTTP status 404 mean?",
				Options:       []string{"A) Server error", "B) Unauthorized", "C) Not found", "D) Redirect"},
				CorrectOption: "C",
				SkillTag:      "web",
			},
			{
				QuestionText:  "Which Python keyword defines a function?",
				Options:       []string{"A) func", "B) def", "C) function", "D) lambda"},
				CorrectOption: "B",
				SkillTag:      "python",
			},
			{
				QuestionText:  "Which SQL clause filters grouped rows?",
				Options:       []string{"A) WHERE", "B) ORDER BY", "C) HAVING", "D) LIMIT"},
				CorrectOption: "C",
				SkillTag:      "sql",
			},
		},
	}
	return db.Create(&quiz).Error
}
