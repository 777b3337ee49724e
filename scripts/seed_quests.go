// クエスト一括投入スクリプト
//
// YAMLで書いたクエスト・問題データをまとめてDBへ登録する。
// 初期デプロイや新学期の教材入れ替え時に手動で実行する想定。
//
// 用法: go run scripts/seed_quests.go <quests.yaml>

package main

import (
	"log"
	"os"

	"mquest_backend/internal/config"
	"mquest_backend/internal/model"
	"mquest_backend/pkg/database"
	"mquest_backend/pkg/logger"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type seedQuestion struct {
	Type        string `yaml:"type"`
	Text        string `yaml:"text"`
	Choices     string `yaml:"choices"`
	Answer      string `yaml:"answer"`
	Explanation string `yaml:"explanation"`
}

type seedQuest struct {
	Subject   string         `yaml:"subject"`
	Level     string         `yaml:"level"`
	QuestName string         `yaml:"quest_name"`
	WorldName string         `yaml:"world_name"`
	Questions []seedQuestion `yaml:"questions"`
}

type seedFile struct {
	Quests []seedQuest `yaml:"quests"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/seed_quests.go <quests.yaml>")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("データベース接続に失敗: %v", err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("シードファイルを読めません: %v", err)
	}

	var seeds seedFile
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("シードファイルの解析に失敗: %v", err)
	}

	imported := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, sq := range seeds.Quests {
			quest := model.Quest{
				Subject:   sq.Subject,
				Level:     sq.Level,
				QuestName: sq.QuestName,
				WorldName: sq.WorldName,
			}
			if err := tx.Create(&quest).Error; err != nil {
				return err
			}
			for i, q := range sq.Questions {
				question := model.Question{
					QuestID:     quest.ID,
					Type:        model.QuestionType(q.Type),
					Text:        q.Text,
					Choices:     q.Choices,
					Answer:      q.Answer,
					Explanation: q.Explanation,
					Order:       i + 1,
				}
				if !question.Type.Valid() {
					log.Fatalf("クエスト %q の問題 %d: 未知の種別 %q", sq.QuestName, i+1, q.Type)
				}
				if err := tx.Create(&question).Error; err != nil {
					return err
				}
			}
			imported++
		}
		return nil
	})
	if err != nil {
		log.Fatalf("投入に失敗しロールバックしました: %v", err)
	}

	log.Printf("%d 件のクエストを投入しました", imported)
}
