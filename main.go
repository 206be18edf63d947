package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"remedy/config"
	"remedy/llm/providers"
	"remedy/llm/qa"
	"remedy/llm/session"
	"remedy/llm/sheets"
	"remedy/llm/vector"
	"remedy/logger"
	"remedy/tui/chat"
)

func init() {
	// Load .env file if exists
	_ = godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	// TUI 接管终端，日志写入文件
	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Output: logFile})

	ctx := context.Background()

	// 启动是阻塞的：知识库加载并建好索引后才开始对话，
	// 这一步失败直接终止进程，没有索引就没有可用的回答
	fmt.Println("Loading pharmaceutical knowledge...")
	sess, idx, err := bootstrap(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialization failed")
		fmt.Fprintln(os.Stderr, "initialization failed:", err)
		os.Exit(1)
	}
	defer sess.Close()
	defer idx.Close()

	// 初始化UI界面
	program := tea.NewProgram(
		chat.InitialModel(sess),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("ui terminated")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap 串起启动链路：工作表 -> 文档 -> 向量索引 -> 回答管道 -> 会话
func bootstrap(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*session.Session, vector.Index, error) {
	client, err := sheets.NewClient(ctx, sheets.ClientConfig{
		SpreadsheetID:   cfg.SpreadsheetID,
		CredentialsFile: cfg.CredentialsFile,
	})
	if err != nil {
		return nil, nil, err
	}

	docs, err := sheets.NewLoader(client, log).LoadDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := providers.CreateEmbeddingModel(ctx)
	if err != nil {
		return nil, nil, err
	}
	embedding := vector.NewEmbeddingService(embedder, vector.GetEmbeddingDimFromEnv())

	var idx vector.Index
	switch cfg.IndexBackend {
	case "redis":
		idx, err = vector.BuildRedisIndex(ctx, embedding, docs, vector.DefaultRedisConfig())
	default:
		idx, err = vector.BuildIndex(ctx, embedding, docs)
	}
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("backend", cfg.IndexBackend).Int("documents", len(docs)).Msg("index built")

	chatModel, err := providers.CreateChatModelFor(ctx, cfg.Provider)
	if err != nil {
		idx.Close()
		return nil, nil, err
	}

	pipeline, err := qa.NewPipeline(qa.Config{
		Embedding:   embedding,
		Index:       idx,
		ChatModel:   chatModel,
		TopK:        cfg.TopK,
		Temperature: &cfg.Temperature,
		Logger:      log,
	})
	if err != nil {
		idx.Close()
		return nil, nil, err
	}

	return session.NewSession(ctx, pipeline, log), idx, nil
}
