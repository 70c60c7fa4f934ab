package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/assistant"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/cli"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/config"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/log"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/ollama"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/scanner"
)

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)

	dir := flag.String("dir", cfg.ReceiptsDir, "receipts directory")
	flag.Parse()

	cfg.ReceiptsDir = *dir
	cli.ValidateConfig(logger, cfg)

	if cfg.ReceiptsDir == "" {
		logger.Error("No receipts directory: pass -dir or set HSA_RECEIPTS_DIR")
		os.Exit(1)
	}

	agg, err := scanner.Scan(cfg.ReceiptsDir)
	if err != nil {
		var dirErr *scanner.DirectoryAccessError
		if errors.As(err, &dirErr) {
			logger.Error("Cannot read receipts directory",
				log.FieldPath, dirErr.Path, log.FieldError, dirErr.Err)
		} else {
			logger.Error("Scan failed", log.FieldError, err)
		}
		os.Exit(1)
	}

	store := cli.InitHistory(logger.WithComponent(log.ComponentHistory), cfg.HistoryDBPath)

	llm := ollama.New(cfg.OllamaURL, cfg.OllamaModel)
	agent := assistant.New(llm, store, agg, assistant.Limits{
		MaxIterations: cfg.AgentMaxIterations,
		Timeout:       cfg.AgentTimeout,
	}, logger.WithComponent(log.ComponentAssistant))

	ctx, done := cli.GracefulShutdown(logger, 5*time.Second, func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close history store", log.FieldError, err)
		}
	})

	years := agg.Years()
	logger.Info("Starting assistant session",
		log.FieldModel, llm.Model(),
		log.FieldFiles, len(agg.Receipts),
		log.FieldInvalid, len(agg.InvalidFiles))
	fmt.Printf("Scanned %d receipts across %d years (%d invalid files).\n",
		len(agg.Receipts), len(years), len(agg.InvalidFiles))
	fmt.Printf("Ask about your receipts (model %s); 'exit' ends the session.\n", llm.Model())

	conversationID := uuid.NewString()
	replDone := make(chan struct{})
	go func() {
		defer close(replDone)
		runREPL(ctx, logger, agent, conversationID)
	}()

	select {
	case <-replDone:
		if err := store.Close(); err != nil {
			logger.Error("Failed to close history store", log.FieldError, err)
		}
		fmt.Println("Goodbye.")
	case <-ctx.Done():
		cli.WaitForShutdown(ctx, done)
	}
}

func runREPL(ctx context.Context, logger *log.Logger, agent *assistant.Assistant, conversationID string) {
	input := bufio.NewScanner(os.Stdin)
	input.Buffer(make([]byte, 64*1024), 64*1024)

	for {
		fmt.Print("> ")
		if !input.Scan() {
			return
		}
		question := strings.TrimSpace(input.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return
		}

		result, err := agent.Ask(ctx, conversationID, question)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Question failed", log.FieldError, err)
			continue
		}

		fmt.Println(result.Answer)
		if result.FallbackReason != "" {
			logger.Debug("Answer used fallback", "reason", result.FallbackReason)
		}
	}
}
