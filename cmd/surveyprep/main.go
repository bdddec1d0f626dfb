// Package main is the entry point for the surveyprep CLI.
// Its sole responsibility is wiring dependencies together and dispatching
// the requested pipeline stage. No business logic belongs here.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/whcmsc/surveyprep/internal/config"
	"github.com/whcmsc/surveyprep/internal/exiftool"
	"github.com/whcmsc/surveyprep/internal/filter"
	"github.com/whcmsc/surveyprep/internal/photo"
	"github.com/whcmsc/surveyprep/internal/pipeline"
	"github.com/whcmsc/surveyprep/internal/rename"
	"github.com/whcmsc/surveyprep/internal/telemetry"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]

	switch cmd {
	case "version":
		fmt.Printf("surveyprep %s\n", version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	// --- Config -----------------------------------------------------------
	// .env first, so a project folder can carry its run settings.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded configuration from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog with a JSON handler; every pipeline log line is structured.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Wiring -----------------------------------------------------------
	meta := photo.ExifSource{}
	p := pipeline.New(cfg, logger,
		telemetry.NewExtractor(),
		photo.NewReader(meta),
		rename.NewStager(rename.NewNamer(cfg.SurveyID, cfg.FlightID, cfg.CameraID), logger),
		exiftool.NewTagger(exiftool.NewExecRunner(logger), cfg.ExiftoolPath),
		filter.New(meta, logger),
	)

	// Ctrl-C cancels the context; an in-flight external invocation is
	// terminated rather than awaited.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dispatch(ctx, cmd, cfg, p); err != nil {
		logger.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

// dispatch runs one subcommand against the wired pipeline.
func dispatch(ctx context.Context, cmd string, cfg config.Config, p *pipeline.Pipeline) error {
	switch cmd {
	case "extract":
		_, err := p.Extract()
		return err

	case "photos":
		_, err := p.Photos()
		return err

	case "plot":
		tel, err := p.Extract()
		if err != nil {
			return err
		}
		photos, err := p.Photos()
		if err != nil {
			return err
		}
		if err := p.CompareSpans(tel, photos); err != nil {
			return err
		}
		return p.Plot(tel, photos)

	case "rename":
		photos, err := p.Photos()
		if err != nil {
			return err
		}
		_, err = p.Rename(photos)
		return err

	case "tag":
		tel, err := p.Extract()
		if err != nil {
			return err
		}
		return p.Tag(ctx, tel)

	case "filter":
		return p.Filter()

	case "run":
		return p.Run(ctx)

	case "flights":
		flights, err := pipeline.DiscoverFlights(cfg.ImageDir)
		if err != nil {
			return err
		}
		for _, f := range flights {
			fmt.Printf("%s\t%s\n", f.ID, f.Dir)
		}
		return nil

	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage() {
	fmt.Println(`surveyprep - UAS survey photo preparation pipeline

USAGE:
    surveyprep <command>

COMMANDS:
    extract     Parse the GPX flight log and export the telemetry CSV
    photos      Read photo capture times and export the photo CSV
    plot        Render the elevation vs. capture-time diagnostic PNG
    rename      Stage a copy of the photo folder and apply standard names
    tag         Geotag and write standard metadata via exiftool
    filter      Copy photos within the altitude band to a keep folder
    run         Full pipeline: extract, photos, plot, rename, tag, filter
    flights     List flight folders (f<number>) under the image directory
    version     Print version information
    help        Show this help message

Configuration comes from surveyprep.yaml, a .env file, or SURVEYPREP_*
environment variables. Required keys: telemetry_path, image_dir,
output_dir, survey_id, flight_id, camera_id.

The source photo folder is never modified; all renaming and tagging
happens on a staged copy under <output_dir>/<flight_id>.`)
}
