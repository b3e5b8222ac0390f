// Rentalcar is a demo web application for a car rental business with a
// conversational customer support assistant.
//
// The site serves car browsing and booking, reservation management, and
// a support chat backed by a tool-calling language model agent.
// Configuration is loaded from a single YAML file discovered
// automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	rentalcar serve                Start the web server
//	rentalcar init [dir]           Seed the data directory with demo data
//	rentalcar ask <question>       Ask the assistant a single question (for testing)
//	rentalcar transcripts [thread] List archived conversations, or print one transcript
//	rentalcar version              Print version and build information
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

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/agent"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/archive"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/buildinfo"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/config"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/embeddings"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/llm"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/policy"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/tools"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/web"
)

// main constructs the OS-level environment and delegates to [run] so
// the full lifecycle can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run parses arguments by hand; the flag package relies on
// package-level globals that interfere with parallel tests, and the
// argument surface here is small.
func run(ctx context.Context, stdout io.Writer, stderr io.Writer, args []string) error {
	var configPath string
	var command string
	var cmdArgs []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			if command != "" {
				cmdArgs = append(cmdArgs, args[i])
			} else {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
		}
	}

	switch command {
	case "serve":
		return runServe(ctx, stdout, configPath)
	case "init":
		dir := "data"
		if len(cmdArgs) > 0 {
			dir = cmdArgs[0]
		}
		return runInit(stdout, dir)
	case "ask":
		if len(cmdArgs) == 0 {
			return fmt.Errorf("usage: rentalcar ask <question>")
		}
		return runAsk(ctx, stdout, configPath, cmdArgs)
	case "transcripts":
		return runTranscripts(ctx, stdout, configPath, cmdArgs)
	case "version":
		return runVersion(stdout)
	case "":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "Rentalcar - Car Rental Demo with a Support Assistant")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: rentalcar [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve          Start the web server")
	fmt.Fprintln(w, "  init [dir]     Seed the data directory with demo data (default: data)")
	fmt.Fprintln(w, "  ask            Ask the assistant a single question (for testing)")
	fmt.Fprintln(w, "  transcripts    List archived conversations, or print one by thread id")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>  Path to config file (default: auto-discover)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config search order:")
	fmt.Fprintln(w, "  "+strings.Join(config.DefaultSearchPaths(), ", "))
	return nil
}

func runVersion(w io.Writer) error {
	fmt.Fprintln(w, buildinfo.String())
	info := buildinfo.RuntimeInfo()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

// runInit seeds the demo CSV tables and policy document.
func runInit(stdout io.Writer, dir string) error {
	if err := rental.Seed(dir); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	fmt.Fprintf(stdout, "seeded demo data in %s\n", dir)
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))
}

func loadConfig(configPath string) (*config.Config, string, error) {
	path, err := config.FindConfig(configPath)
	if err != nil {
		if configPath != "" {
			return nil, "", err
		}
		return config.Default(), "(defaults)", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// buildAssistant wires the support assistant: tool registry over the
// rental store, the policy retriever, the model client, and the
// orchestration loop. The policy retriever is optional; when the
// embeddings backend is unreachable, lookup_policy degrades to an
// error-typed tool result and the rest of the assistant keeps working.
func buildAssistant(ctx context.Context, cfg *config.Config, store *rental.Store, threads *agent.ThreadStore, arch agent.Archiver, logger *slog.Logger) *agent.Loop {
	var retriever tools.PolicyRetriever
	embClient := embeddings.NewClient(cfg.Embeddings.BaseURL, cfg.Embeddings.Model)
	docPath := filepath.Join(cfg.DataDir, "company_rules.md")
	vectorsPath := filepath.Join(cfg.DataDir, "vectors.json")
	r, err := policy.NewRetriever(ctx, docPath, vectorsPath, embClient, logger)
	if err != nil {
		logger.Warn("policy retriever unavailable", "error", err)
	} else {
		retriever = r
	}

	registry := tools.NewRegistry(store, retriever)
	client := llm.NewGroqClient(cfg.Groq.BaseURL, cfg.Groq.APIKey, logger)
	stepper := agent.NewStepper(client, cfg.Groq.Model, registry.Defs(), logger)
	dispatcher := agent.NewDispatcher(registry, logger)
	return agent.NewLoop(stepper, dispatcher, threads, arch, logger)
}

func runServe(ctx context.Context, stdout io.Writer, configPath string) error {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(stdout, level)
	addr := fmt.Sprintf("%s:%d", cfg.Listen.Address, cfg.Listen.Port)
	logger.Info("starting rentalcar",
		"version", buildinfo.Version,
		"config", cfgPath,
		"listen", addr,
	)

	if err := rental.Seed(cfg.DataDir); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	store, err := rental.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	arch, err := archive.Open(cfg.ArchiveDB, logger)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer arch.Close()

	threads := agent.NewThreadStore()

	var responder web.Responder
	if cfg.Groq.APIKey == "" {
		logger.Warn("no Groq API key configured, support assistant disabled")
	} else {
		responder = buildAssistant(ctx, cfg, store, threads, arch, logger)
	}

	webServer := web.NewWebServer(store, threads, responder, logger)
	server := &http.Server{
		Addr:              addr,
		Handler:           webServer.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGINT/SIGTERM trigger graceful shutdown.
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("web server listening", "addr", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// runTranscripts inspects the conversation archive. With no argument it
// lists recent conversations; with a thread id it prints that thread's
// stored messages.
func runTranscripts(ctx context.Context, stdout io.Writer, configPath string, args []string) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(stdout, slog.LevelWarn)

	arch, err := archive.Open(cfg.ArchiveDB, logger)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer arch.Close()

	if len(args) == 0 {
		convs, err := arch.RecentConversations(ctx, 20)
		if err != nil {
			return err
		}
		if len(convs) == 0 {
			fmt.Fprintln(stdout, "no archived conversations")
			return nil
		}
		for _, c := range convs {
			fmt.Fprintf(stdout, "%s  user=%d  messages=%d  updated=%s\n",
				c.ThreadID, c.UserID, c.Messages, c.UpdatedAt.Format(time.RFC3339))
		}
		return nil
	}

	msgs, err := arch.Transcript(ctx, args[0])
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintf(stdout, "no transcript for thread %s\n", args[0])
		return nil
	}
	for _, m := range msgs {
		fmt.Fprintf(stdout, "[%s] %s\n", m.Kind, m.Content)
	}
	return nil
}

// runAsk boots a minimal assistant and processes a single question as
// the first demo user. Useful for smoke tests without the web server.
func runAsk(ctx context.Context, stdout io.Writer, configPath string, args []string) error {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(stdout, slog.LevelWarn)
	question := strings.Join(args, " ")

	if cfg.Groq.APIKey == "" {
		return fmt.Errorf("no Groq API key configured (set GROQ_API_KEY or groq.api_key in %s)", cfgPath)
	}

	if err := rental.Seed(cfg.DataDir); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	store, err := rental.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	user, ok := store.UserByID(101)
	if !ok {
		return fmt.Errorf("demo user 101 not found in %s", cfg.DataDir)
	}

	// No archive for a one-shot question.
	threads := agent.NewThreadStore()
	loop := buildAssistant(ctx, cfg, store, threads, nil, logger)

	threadID := threads.Create(user)
	fmt.Fprintln(stdout, loop.Respond(ctx, threadID, question))
	return nil
}
