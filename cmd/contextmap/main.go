package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/suren2787/contextmap/pkg/catalog"
	"github.com/suren2787/contextmap/pkg/config"
	"github.com/suren2787/contextmap/pkg/cycles"
	"github.com/suren2787/contextmap/pkg/diff"
	"github.com/suren2787/contextmap/pkg/discovery"
	"github.com/suren2787/contextmap/pkg/graph"
	"github.com/suren2787/contextmap/pkg/logging"
	"github.com/suren2787/contextmap/pkg/output"
	"github.com/suren2787/contextmap/pkg/watcher"
	"github.com/suren2787/contextmap/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("contextmap", pflag.ExitOnError)
	flags.String("catalog", ".", "Directory of catalog entity YAML files")
	flags.String("catalog-url", "", "Remote catalog API base URL (overrides --catalog)")
	flags.String("catalog-token", "", "Bearer token for the remote catalog")
	flags.Bool("demo", false, "Use the built-in banking demo catalog")
	flags.Bool("web", false, "Start web server instead of printing to console")
	flags.Int("port", 8080, "Port for web server (only used with --web)")
	flags.Bool("watch", false, "Rebuild on catalog file changes (file source only)")
	flags.Bool("json-logs", false, "Emit logs as JSON")
	flags.CountP("verbose", "v", "Increase log verbosity")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := logging.LevelFromVerbosity(cfg.VerboseCnt)
	if cfg.JSONLogs {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}

	source := selectSource(cfg)
	service := discovery.NewService(source)

	if cfg.WebMode {
		runWebServer(cfg, source, service)
		return
	}

	contextMap, err := service.BuildContextMap(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	contextCycles := cycles.FindContextCycles(graph.Build(contextMap))
	output.PrintContextMapReport(contextMap, contextCycles)
}

// selectSource picks the catalog source from configuration:
// remote catalog if a URL is set, the demo fixture with --demo,
// otherwise the local entity file directory.
func selectSource(cfg *config.Config) catalog.Source {
	switch {
	case cfg.Demo:
		return catalog.NewDemoSource()
	case cfg.CatalogURL != "":
		logging.Info("using remote catalog", "url", cfg.CatalogURL)
		return catalog.NewRestSource(cfg.CatalogURL, cfg.CatalogToken)
	default:
		logging.Info("using catalog directory", "path", cfg.CatalogDir)
		return catalog.NewFileSource(cfg.CatalogDir)
	}
}

func runWebServer(cfg *config.Config, source catalog.Source, service *discovery.Service) {
	server := web.NewServer(service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Watch {
		if source.Name() != "File" {
			logging.Warn("--watch only applies to the catalog directory source, ignoring")
		} else if err := startWatcher(ctx, cfg.CatalogDir, server); err != nil {
			logging.Warn("failed to start catalog watcher", "error", err)
		}
	}

	// Publish the initial snapshot so SSE subscribers see state immediately
	go func() {
		_ = server.PublishCatalogStatus("syncing", "building initial context map", 1, 2)
		contextMap, err := service.BuildContextMap(ctx)
		if err != nil {
			logging.Error("initial context map build failed", "error", err)
			_ = server.PublishCatalogStatus("error", err.Error(), 2, 2)
			return
		}
		_ = server.PublishCatalogStatus("ready", "context map ready", 2, 2)
		_ = server.PublishContextMap("rebuilt", contextMap)
	}()

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("failed to start server", "error", err)
	}
}

// startWatcher wires catalog file changes through the debouncer into
// context map rebuild events
func startWatcher(ctx context.Context, dir string, server *web.Server) error {
	cw, err := watcher.NewCatalogWatcher(dir)
	if err != nil {
		return err
	}
	if err := cw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(cw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	go func() {
		var previous *diff.MapSnapshot

		for event := range debouncer.Output() {
			logging.Info("catalog changed, rebuilding context map", "files", len(event.Paths))
			_ = server.PublishCatalogStatus("syncing", "catalog changed, rebuilding", 1, 2)

			contextMap, err := server.Rebuild(ctx)
			if err != nil {
				logging.Error("context map rebuild failed", "error", err)
				_ = server.PublishCatalogStatus("error", err.Error(), 2, 2)
				continue
			}
			_ = server.PublishCatalogStatus("ready", "context map ready", 2, 2)

			// Touched files that change nothing structurally (comments,
			// formatting) should not wake SSE subscribers
			changes := diff.Compute(previous, contextMap)
			previous = diff.Snapshot(contextMap)
			if changes.Empty() {
				logging.Debug("rebuild produced an identical context map, skipping publish")
				continue
			}

			logging.Info("context map changed",
				"addedContexts", len(changes.AddedContexts),
				"removedContexts", len(changes.RemovedContexts),
				"modifiedContexts", len(changes.ModifiedContexts),
				"addedRelationships", len(changes.AddedRelationships),
				"removedRelationships", len(changes.RemovedRelationships),
			)
			_ = server.PublishContextMap("rebuilt", contextMap)
		}
	}()

	return nil
}
