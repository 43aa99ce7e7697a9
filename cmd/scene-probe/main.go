// Command scene-probe runs the scene pipeline on local image files and
// prints the room records, without starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/app"
	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/report"
	"github.com/bhargavsai259/collegeproject/internal/scene"
)

func main() {
	var (
		configPath string
		xlsxPath   string
		timeout    time.Duration
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (short)")
	flag.StringVar(&xlsxPath, "xlsx", "", "Also write the rooms to this spreadsheet")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Overall timeout")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] image...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.LogConfig{
		Level:  cfg.Log.Level,
		Format: "text",
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pipeline, err := app.NewPipeline(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build pipeline: %v\n", err)
		os.Exit(1)
	}

	uploads := make([]scene.Upload, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", path, err)
			os.Exit(1)
		}
		uploads = append(uploads, scene.Upload{
			Filename:    filepath.Base(path),
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rooms := pipeline.Builder.Build(ctx, uploads)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rooms); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode rooms: %v\n", err)
		os.Exit(1)
	}

	if xlsxPath != "" {
		data, err := report.RoomsWorkbook(rooms)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render workbook: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", xlsxPath, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rooms to %s\n", len(rooms), xlsxPath)
	}
}
