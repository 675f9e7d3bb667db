// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// savedump inspects savegame files against a content catalog.
//
// Usage:
//
//	savedump --catalog content.yaml [flags] <save>...
//	savedump --catalog content.yaml --serve :8080
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/luxfi/savegame"
	"github.com/luxfi/savegame/catalog"
	"github.com/luxfi/savegame/inspect"
	"github.com/luxfi/savegame/service"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	catalogPath string
	format      string
	fields      bool
	maxFields   int
	maxSize     int
	logLevel    string
	serve       string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("savedump", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.catalogPath, "catalog", "", "content catalog (.yaml, .yml, .json or .jsonc)")
	flagSet.StringVar(&opts.format, "format", "text", "output format: text, json or cbor")
	flagSet.BoolVar(&opts.fields, "fields", false, "list the tagged stream field by field")
	flagSet.IntVar(&opts.maxFields, "max-fields", inspect.DefaultMaxFields, "maximum number of fields to list")
	flagSet.IntVar(&opts.maxSize, "max-size", savegame.DefaultMaxSize, "maximum uncompressed save size in bytes")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flagSet.StringVar(&opts.serve, "serve", "", "serve the JSON-RPC inspection service on this address")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}

	if opts.catalogPath == "" {
		printHelp(stderr, flagSet)
		return errors.New("--catalog is required")
	}

	log, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(opts.catalogPath)
	if err != nil {
		return err
	}
	cfg := savegame.DefaultConfig()
	cfg.MaxSize = opts.maxSize
	cfg.Logger = log

	if opts.serve != "" {
		return serve(opts.serve, service.New(cat, cfg, log), log)
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		return errors.New("no save files given")
	}
	out, err := newPrinter(opts.format, stdout, isTerminal(stdout))
	if err != nil {
		return err
	}
	inspectOpts := inspect.Options{Fields: opts.fields, MaxFields: opts.maxFields}
	for _, path := range paths {
		data, err := readSave(path, stdin)
		if err != nil {
			return err
		}
		report, err := inspect.Inspect(data, cat, cfg, inspectOpts)
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", path, err)
		}
		if report.CatalogChanged {
			log.Warn("save was written against a different catalog",
				"path", path,
				"unresolved", report.Unresolved,
			)
		}
		if err := out(path, report); err != nil {
			return err
		}
	}
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `savedump - inspect savegame files

Decodes the envelope and translation tables of each save against the given
content catalog and reports which content names no longer resolve. A path
of "-" reads the save from stdin.

Usage:
  savedump --catalog <file> [flags] <save>...
  savedump --catalog <file> --serve <addr>

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	options := &slog.HandlerOptions{Level: l}
	var handler slog.Handler
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func loadCatalog(path string) (*catalog.Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	var cat *catalog.Static
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cat, err = catalog.LoadYAML(f)
	case ".json", ".jsonc":
		cat, err = catalog.LoadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return cat, nil
}

func readSave(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	return data, nil
}

// printer writes the report of one save.
type printer func(path string, r *inspect.Report) error

func newPrinter(format string, w io.Writer, styled bool) (printer, error) {
	switch format {
	case "text":
		return func(path string, r *inspect.Report) error {
			return renderText(w, path, r, styled)
		}, nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return func(_ string, r *inspect.Report) error {
			return enc.Encode(r)
		}, nil
	case "cbor":
		encMode, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, fmt.Errorf("configuring cbor: %w", err)
		}
		enc := encMode.NewEncoder(w)
		return func(_ string, r *inspect.Report) error {
			return enc.Encode(r)
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func serve(addr string, s *service.Service, log *slog.Logger) error {
	handler, err := service.NewHandler(s)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/rpc", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		log.Info("serving inspection service", "addr", addr, "path", "/rpc")
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	log.Info("inspection service stopped")
	return nil
}
