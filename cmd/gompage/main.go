package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gompdf/gompage/internal/config"
	"github.com/gompdf/gompage/internal/host"
	"github.com/gompdf/gompage/internal/render"
	"github.com/gompdf/gompage/internal/server"
	"github.com/gompdf/gompage/internal/source"
	"github.com/gompdf/gompage/internal/storage"
	"github.com/gompdf/gompage/pkg/api"
)

func main() {
	var (
		inputFile  string
		outputFile string
		modeName   string
		formatName string
		configFile string
		serveAddr  string
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Input HTML or JSON file path")
	flag.StringVar(&outputFile, "output", "", "Output file path, - for stdout")
	flag.StringVar(&modeName, "mode", "", "Render mode: preview or print")
	flag.StringVar(&formatName, "format", "", "Output format: html, pdf, text or json")
	flag.StringVar(&configFile, "config", "", "Config file path (TOML)")
	flag.StringVar(&serveAddr, "serve", "", "Serve the preview on this address instead of writing a file")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	logger := log.New(os.Stderr, "gompage: ", log.LstdFlags)

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	opts := append(cfg.APIOptions(), api.WithLogger(logger))
	if verbose {
		opts = append(opts, api.WithDebug(true))
	}
	paginator := api.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveAddr == "" && inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	if serveAddr != "" {
		if err := serve(ctx, cfg, paginator, inputFile, serveAddr, logger); err != nil {
			logger.Fatalf("Server error: %v", err)
		}
		return
	}

	if modeName == "" {
		modeName = cfg.Output.Mode
	}
	mode, err := render.ParseMode(modeName)
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}

	format, err := resolveFormat(formatName, outputFile, cfg.Output.Format)
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}

	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = inputFile[:len(inputFile)-len(ext)] + "." + extension(format)
	}

	if err := convert(ctx, paginator, inputFile, outputFile, format, mode); err != nil {
		logger.Fatalf("Error converting file: %v", err)
	}

	if verbose && outputFile != "-" {
		logger.Printf("Successfully converted %s to %s", inputFile, outputFile)
	}
}

// resolveFormat prefers the -format flag, then the output extension, then the config
func resolveFormat(flagValue, outputFile, configured string) (api.Format, error) {
	if flagValue != "" {
		return api.ParseFormat(flagValue)
	}
	if outputFile != "" && outputFile != "-" && filepath.Ext(outputFile) != "" {
		return api.FormatFromPath(outputFile), nil
	}
	return api.ParseFormat(configured)
}

func extension(f api.Format) string {
	if f == api.FormatText {
		return "txt"
	}
	return string(f)
}

func convert(ctx context.Context, p *api.Paginator, inputFile, outputFile string, format api.Format, mode render.Mode) error {
	doc, err := p.Load(ctx, inputFile)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outputFile != "-" {
		if err := os.MkdirAll(filepath.Dir(outputFile), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return p.Convert(doc, w, format, mode)
}

func serve(ctx context.Context, cfg config.Config, p *api.Paginator, inputFile, addr string, logger *log.Logger) error {
	store, err := storage.New(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		return err
	}

	printer := host.NewChromePrinter()
	printer.ExecPath = cfg.Printer.ChromePath
	printer.PageNumbers = cfg.Printer.PageNumbers
	dispatcher := host.NewDispatcher(printer, store, logger)

	// Load first so the server resolves resources against the input file
	var doc *source.Document
	if inputFile != "" {
		if doc, err = p.Load(ctx, inputFile); err != nil {
			return err
		}
	}

	srv, err := server.New(p, server.Options{Dispatcher: dispatcher, Store: store, Logger: logger})
	if err != nil {
		return err
	}
	if doc != nil {
		if err := srv.Load(ctx, doc); err != nil {
			return err
		}
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start(addr)
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
