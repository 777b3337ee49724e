package database

import (
	"fmt"
	"log"

	"mquest_backend/internal/config"
	"mquest_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB はMySQLへ接続する。autoMigrateはreleaseモードでは通常falseで、
// -migrate フラグ指定時のみ強制される
func InitDB(cfg *config.DatabaseConfig, autoMigrate bool) (*gorm.DB, error) {
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
		// 一意制約違反を gorm.ErrDuplicatedKey に変換する
		// （進捗記録の同時初回投稿の競合検出に使う）
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	if err := seedAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate スキーマのオートマイグレーション（テスト用のSQLiteでも使う）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Quest{},
		&model.Question{},
		&model.QuestHistory{},
		&model.QuestAttemptLog{},
		&model.UserProgress{},
	)
}

// seedAdmin 初回起動時に管理者アカウントを用意する。
// 初回ログインフラグが立っているので即パスワード変更を求められる
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:     "admin",
		Password:     string(hashed),
		Role:         model.Admin,
		IsFirstLogin: true,
		Nickname:     "管理者",
	}
	return db.Create(admin).Error
}
