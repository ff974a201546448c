package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/app/bootstrap"
	"github.com/dearhome/assistant-go/internal/logger"
)

func main() {
	query := flag.String("query", "", "单次问句，处理后立即退出")
	userID := flag.String("user", "", "问句所属的用户ID")
	flag.Parse()

	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	// 单次问答模式，便于本地调试
	if *query != "" {
		reply, err := app.GetChatbot().ProcessQuery(context.Background(), *query, *userID)
		if err != nil {
			logger.Fatal("处理问句失败", zap.Error(err))
		}
		fmt.Println(reply)
		return
	}

	logger.Info("🚀 Starting DearHome assistant service")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("收到退出信号，开始优雅关闭", zap.String("signal", sig.String()))
}
