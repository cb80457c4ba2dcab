package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tamilprep/qbank-backend/internal/config"
	"github.com/tamilprep/qbank-backend/internal/database"
	"github.com/tamilprep/qbank-backend/internal/logger"
	"github.com/tamilprep/qbank-backend/internal/model"
	"github.com/tamilprep/qbank-backend/internal/repository"
	"github.com/tamilprep/qbank-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	var (
		filePath string
		examType string
		name     string
		email    string
	)
	flag.StringVar(&filePath, "file", "", "Question bank spreadsheet (e.g. physics_unit_1_chap_2_laws_of_motion_qb.xlsx)")
	flag.StringVar(&examType, "exam-type", string(model.ExamTypeBoth), "Exam type: NEET, JEE or Both")
	flag.StringVar(&name, "name", "", "Uploader name recorded on the upload")
	flag.StringVar(&email, "email", "", "Uploader email recorded on the upload")
	flag.Parse()

	files := flag.Args()
	if filePath != "" {
		files = append([]string{filePath}, files...)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: import-qbank -file <path> [-exam-type NEET|JEE|Both] [-name ...] [-email ...] [more files...]")
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// ─── Uploader Identity ─────────────────────────────────────────────
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		reader := bufio.NewReader(os.Stdin)
		if name == "" {
			name = prompt(reader, "Uploader Name: ")
		}
		if email == "" {
			email = prompt(reader, "Uploader Email: ")
		}
	}
	if name == "" || email == "" {
		log.Fatal().Msg("Uploader name and email are required (-name, -email)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	locker, closeLocker, err := database.NewImportLocker(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer closeLocker()

	// ─── Initialize Services ───────────────────────────────────────────
	questionRepo := repository.NewQuestionRepository(pool)
	uploadService := service.NewUploadService(repository.NewUploadedFileRepository(pool), log)
	importService := service.NewImportService(questionRepo, uploadService, locker, cfg.DedupScope, log)

	// ─── Import ────────────────────────────────────────────────────────
	enc := json.NewEncoder(os.Stdout)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to read file")
			failed++
			continue
		}

		result, err := importService.Import(ctx, service.ImportRequest{
			FileName: path,
			ExamType: model.ExamType(examType),
			Data:     data,
			Uploader: model.Uploader{Name: name, Email: email},
		})
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Import failed")
			failed++
			continue
		}

		if err := enc.Encode(result); err != nil {
			log.Error().Err(err).Msg("Failed to write result")
		}
	}

	if failed > 0 {
		pool.Close()
		closeLocker()
		os.Exit(1)
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Fprint(os.Stderr, label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
