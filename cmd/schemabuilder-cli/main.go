package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/goliatone/go-schemabuilder/pkg/editor"
	"github.com/goliatone/go-schemabuilder/pkg/loader"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
	"github.com/goliatone/go-schemabuilder/pkg/tui"
)

func main() {
	seed := flag.String("seed", "", "seed schema document path or URL (JSON or YAML)")
	seedTimeout := flag.Duration("seed-timeout", 10*time.Second, "timeout for fetching a seed URL")
	submitLog := flag.String("submit-log", "", "append submissions to this file")
	once := flag.Bool("once", false, "exit after the first submit")
	preview := flag.Bool("preview", false, "print the preview after every edit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tree := schema.DefaultTree()
	if src := loader.ParseSource(*seed); src != nil {
		seeds := loader.New(
			loader.WithHTTPClient(http.DefaultClient),
			loader.WithRequestTimeout(*seedTimeout),
		)
		loaded, err := seeds.Load(ctx, src)
		if err != nil {
			log.Fatalf("Failed to load seed: %v", err)
		}
		tree = loaded
	}

	var sink editor.Sink = editor.LogSink{}
	if *submitLog != "" {
		file, err := os.OpenFile(*submitLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("Failed to open submit log: %v", err)
		}
		defer file.Close()
		sink = editor.MultiSink(sink, editor.NewWriterSink(file))
	}

	session, err := editor.NewSession(editor.WithTree(tree), editor.WithSink(sink))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	options := []tui.Option{tui.WithPromptDriver(tui.NewSurveyDriver(os.Stdout))}
	if *once {
		options = append(options, tui.WithExitOnSubmit())
	}
	if *preview {
		options = append(options, tui.WithPreviewAfterEdit())
	}
	ed, err := tui.New(session, options...)
	if err != nil {
		log.Fatalf("Failed to start editor: %v", err)
	}

	if err := ed.Run(ctx); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Println("aborted")
			return
		}
		log.Fatalf("Editor failed: %v", err)
	}
}
