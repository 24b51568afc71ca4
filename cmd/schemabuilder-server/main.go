package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-schemabuilder/internal/config"
	"github.com/goliatone/go-schemabuilder/internal/server"
	"github.com/goliatone/go-schemabuilder/pkg/editor"
	"github.com/goliatone/go-schemabuilder/pkg/loader"
	"github.com/goliatone/go-schemabuilder/pkg/renderers"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/page"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree := schema.DefaultTree()
	if source := loader.ParseSource(cfg.SeedPath); source != nil {
		seeds := loader.New(
			loader.WithHTTPClient(http.DefaultClient),
			loader.WithRequestTimeout(cfg.SeedTimeout),
		)
		tree, err = seeds.Load(ctx, source)
		if err != nil {
			log.Fatalf("load seed %s: %v", cfg.SeedPath, err)
		}
	}

	sinks := []editor.Sink{editor.LogSink{}}
	if cfg.SubmitLog != "" {
		file, err := os.OpenFile(cfg.SubmitLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("open submit log: %v", err)
		}
		defer file.Close()
		sinks = append(sinks, editor.NewWriterSink(file))
	}

	session, err := editor.NewSession(
		editor.WithTree(tree),
		editor.WithSink(editor.MultiSink(sinks...)),
	)
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	srv, err := server.New(session,
		server.WithTitle(cfg.Title),
		server.WithTheme(cfg.Theme, cfg.ThemeVariant),
		server.WithComponentName(cfg.Component),
		server.WithRenderers(
			renderers.WithYAMLIndent(cfg.YAMLIndent),
			renderers.WithPageOptions(page.WithTemplatesDir(cfg.Templates)),
		),
	)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	log.Printf("listening on %s (%d root fields)", cfg.Addr, len(tree))

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Fatalf("listen: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Grace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
