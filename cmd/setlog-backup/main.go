package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/setlog/internal/backup"
	"github.com/claude/setlog/internal/config"
	"github.com/claude/setlog/internal/store"
	"github.com/google/uuid"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportDir := flag.String("export", "", "write a backup file into this directory")
	importPath := flag.String("import", "", "replace store contents from this backup file")
	gz := flag.Bool("gzip", false, "gzip the export file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if (*exportDir == "") == (*importPath == "") {
		fmt.Fprintf(os.Stderr, "Usage: setlog-backup -config config.yaml (-export <dir> [-gzip] | -import <file>)\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var st store.Store
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.OpenPostgres(ctx, cfg.Store.Postgres.DSN())
	default:
		st, err = store.OpenSQLite(cfg.Store.Path)
	}
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if *exportDir != "" {
		runExport(ctx, st, *exportDir, *gz, log)
		return
	}
	runImport(ctx, st, *importPath, log)
}

func runExport(ctx context.Context, st store.Store, dir string, gz bool, log *slog.Logger) {
	doc, err := st.Load(ctx)
	if err != nil {
		log.Error("failed to load document", "error", err)
		os.Exit(1)
	}
	if doc == nil {
		log.Error("nothing to export: store is empty")
		os.Exit(1)
	}

	var data []byte
	ext := ".json"
	if gz {
		data, err = backup.ExportGzip(doc)
		ext = ".json.gz"
	} else {
		data, err = backup.Export(doc)
	}
	if err != nil {
		log.Error("export failed", "error", err)
		os.Exit(1)
	}

	name := fmt.Sprintf("setlog-backup-%s-%s%s",
		time.Now().Format("2006-01-02"), uuid.NewString()[:8], ext)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Error("failed to write backup", "path", path, "error", err)
		os.Exit(1)
	}
	log.Info("backup written", "path", path, "bytes", len(data))
}

func runImport(ctx context.Context, st store.Store, path string, log *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read backup", "path", path, "error", err)
		os.Exit(1)
	}

	doc, err := backup.Import(data)
	if err != nil {
		log.Error("import rejected, store untouched", "error", err)
		os.Exit(1)
	}

	if err := st.Save(ctx, doc); err != nil {
		log.Error("failed to save imported document", "error", err)
		os.Exit(1)
	}
	log.Info("import complete",
		"exercises", len(doc.Exercises),
		"programs", len(doc.Programs),
		"workouts", len(doc.Workouts),
		"history_records", len(doc.History),
	)
}
