// 手动为技能标签生成测验题库
//
// 个性化测验按学习路径标题推导出的标签选题，新增标签后可用此脚本补充题库。
//
// 用法: go run scripts/generate_quiz.go -tag python -count 5

package main

import (
	"context"
	"flag"
	"log"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/pkg/database"
	"mapmyroute_backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	tag := flag.String("tag", "", "技能标签，例如 python、sql")
	count := flag.Int("count", 5, "生成的题目数量")
	flag.Parse()

	if *tag == "" {
		log.Fatal("必须指定 -tag")
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	quizService := service.NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewSkillPathRepository(db),
		service.NewAIService(cfg.AI),
	)

	log.Printf("为标签 %s 生成 %d 道题...", *tag, *count)
	quiz, err := quizService.GenerateQuiz(context.Background(), *tag, *count)
	if err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	log.Printf("完成！测验 #%d 共 %d 道题", quiz.ID, len(quiz.Questions))
}
