// @title MQuest API
// @version 1.0
// @description 小中学生向けクイズ学習プラットフォームのバックエンド。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"mquest_backend/internal/app"
	"mquest_backend/internal/config"
	"mquest_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "マイグレーションだけ実行して終了する")
	migrate := flag.Bool("migrate", false, "起動時にマイグレーションを強制実行する")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Migration completed, exiting")
		return
	}

	application.Run()
}
