package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"harjoitus/internal/config"
	"harjoitus/internal/database"
	"harjoitus/internal/logger"
	"harjoitus/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	exportFormat := exportCmd.String("format", "json", "Output format: json or csv")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importFormat := importCmd.String("format", "json", "Input format: json or csv")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl, err := logger.New(cfg.Env, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()

	var db *database.DB
	if cfg.ProgressStore == "sql" {
		db, err = database.InitializeWithConfig(cfg)
		if err != nil {
			zl.Fatal("failed to initialize database", zap.Error(err))
		}
		defer db.Close()

		// Run migrations to ensure schema is up to date
		if _, err := db.RunMigrations(ctx); err != nil {
			zl.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	backupService := service.NewBackupService(service.NewProgressStore(cfg.ProgressStore, cfg.ProgressDir, db), zl)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, zl, backupService, *exportOutput, *exportFormat)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, zl, backupService, *importInput, *importFormat)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, zl *zap.Logger, backupService *service.BackupService, outputPath, format string) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.%s", timestamp, format)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			zl.Fatal("failed to create output directory", zap.Error(err))
		}
	}

	zl.Info("exporting progress", zap.String("path", outputPath), zap.String("format", format))
	var err error
	switch format {
	case "json":
		err = backupService.Export(ctx, outputPath)
	case "csv":
		var file *os.File
		file, err = os.Create(outputPath)
		if err == nil {
			err = backupService.ExportCSV(ctx, file)
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
		}
	default:
		zl.Fatal("unknown format", zap.String("format", format))
	}
	if err != nil {
		zl.Fatal("export failed", zap.Error(err))
	}

	fileInfo, err := os.Stat(outputPath)
	if err == nil {
		zl.Info("export complete", zap.Int64("bytes", fileInfo.Size()))
	}
}

func handleImport(ctx context.Context, zl *zap.Logger, backupService *service.BackupService, inputPath, format string) {
	// Check if file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		zl.Fatal("input file does not exist", zap.String("path", inputPath))
	}

	fmt.Print("WARNING: This replaces the stored progress. Stop the server first. Type 'yes' to confirm: ")
	var confirmation string
	fmt.Scanln(&confirmation)
	if confirmation != "yes" {
		zl.Info("import cancelled")
		return
	}

	zl.Info("importing progress", zap.String("path", inputPath), zap.String("format", format))
	var err error
	switch format {
	case "json":
		err = backupService.Import(ctx, inputPath)
	case "csv":
		var file *os.File
		file, err = os.Open(inputPath)
		if err == nil {
			err = backupService.ImportCSV(ctx, file)
			file.Close()
		}
	default:
		zl.Fatal("unknown format", zap.String("format", format))
	}
	if err != nil {
		zl.Fatal("import failed", zap.Error(err))
	}

	zl.Info("import complete")
}

func printUsage() {
	fmt.Println("Harjoitus Progress Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export player progress")
	fmt.Println("  backup import [options]    Replace player progress from a backup")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.<format>)")
	fmt.Println("  -format <fmt>     json (default) or csv")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -format <fmt>     json (default) or csv; csv accepts the legacy layout too")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  backup export")
	fmt.Println("  backup export -format csv -output progress.csv")
	fmt.Println("  backup import -input backup.json")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  PROGRESS_STORE   sql (default) or file")
	fmt.Println("  PROGRESS_DIR     Directory of the file store (default: ./data/local)")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./harjoitus.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
