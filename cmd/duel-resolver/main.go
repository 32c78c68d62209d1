package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/duelresolver/internal/config"
	"github.com/rewired-gh/duelresolver/internal/logger"
	"github.com/rewired-gh/duelresolver/internal/models"
	"github.com/rewired-gh/duelresolver/internal/parser"
	"github.com/rewired-gh/duelresolver/internal/relation"
	"github.com/rewired-gh/duelresolver/internal/resolver"
	"github.com/rewired-gh/duelresolver/internal/storage"
	"github.com/rewired-gh/duelresolver/internal/telegram"
)

var (
	configPath     = flag.String("config", "configs/config.yaml", "Path to configuration file")
	inputPath      = flag.String("input", "", "Problem file, \"-\" for stdin (overrides input.problem_path)")
	candidatesPath = flag.String("candidates", "", "Candidate pairs file (overrides input.candidates_path)")
	explain        = flag.Bool("explain", false, "Print the dominating candidates for each query")
	history        = flag.Int("history", 0, "List the N most recent stored runs instead of resolving")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *inputPath != "" {
		cfg.Input.ProblemPath = *inputPath
	}
	if *candidatesPath != "" {
		cfg.Input.CandidatesPath = *candidatesPath
	}
	if *explain {
		cfg.Resolver.Explain = true
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Debug("Configuration loaded from %s", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriter(os.Stdout)
	if *history > 0 {
		if err := printHistory(ctx, cfg.Storage, out, *history); err != nil {
			_ = out.Flush()
			logger.Fatal("%v", err)
		}
		if err := out.Flush(); err != nil {
			logger.Fatal("Failed to write output: %v", err)
		}
		return
	}
	if err := run(ctx, cfg, os.Stdin, out); err != nil {
		_ = out.Flush()
		logger.Fatal("%v", err)
	}
	if err := out.Flush(); err != nil {
		logger.Fatal("Failed to write output: %v", err)
	}
}

// run resolves one problem instance and writes one count per query to out.
func run(ctx context.Context, cfg *config.Config, stdin io.Reader, out io.Writer) error {
	startTime := time.Now()

	problem, err := readProblem(cfg.Input.ProblemPath, stdin, cfg.Resolver.MaxSymbols)
	if err != nil {
		return err
	}

	table, err := relation.Build(problem.Grid, problem.SymbolCount)
	if err != nil {
		return fmt.Errorf("failed to build relation table: %w", err)
	}
	logger.Debug("Relation table:\n%s", strings.Join(table.Grid(), "\n"))

	candidates, err := readCandidates(cfg.Input.CandidatesPath, problem.SymbolCount)
	if err != nil {
		return err
	}
	logger.Info("Loaded %d symbols, %d candidates, %d queries",
		problem.SymbolCount, len(candidates), len(problem.Queries))

	counts, err := resolver.Resolve(candidates, problem.Queries, table)
	if err != nil {
		return fmt.Errorf("failed to resolve: %w", err)
	}

	for k, count := range counts {
		if _, err := fmt.Fprintln(out, count); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if cfg.Resolver.Explain {
			if err := explainQuery(out, candidates, problem.Queries[k], table); err != nil {
				return err
			}
		}
	}

	logger.Info("Resolved %d queries in %v", len(counts), time.Since(startTime))

	if !cfg.Storage.Enabled && !cfg.Telegram.Enabled {
		return nil
	}

	rec, err := models.NewRun(uuid.New().String(), cfg.Input.ProblemPath,
		problem.SymbolCount, len(candidates), problem.Queries, counts)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	if cfg.Storage.Enabled {
		if err := saveRun(ctx, cfg.Storage, rec); err != nil {
			// History is best effort; the results are already written.
			logger.Warn("Failed to persist run %s: %v", rec.ID, err)
		}
	}

	if cfg.Telegram.Enabled {
		tg, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Warn("Failed to initialize Telegram client: %v", err)
			return nil
		}
		if err := tg.Send(ctx, rec, cfg.Resolver.TopK); err != nil {
			logger.Warn("Failed to send Telegram notification: %v", err)
		} else {
			logger.Info("Sent Telegram summary for run %s", rec.ID)
		}
	}

	return nil
}

func readProblem(path string, stdin io.Reader, maxSymbols int) (*parser.Problem, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open problem file: %w", err)
		}
		defer f.Close()
		r = f
	}
	problem, err := parser.Parse(r, maxSymbols)
	if err != nil {
		return nil, fmt.Errorf("failed to parse problem %s: %w", path, err)
	}
	return problem, nil
}

// readCandidates loads the candidate file, or every ordered pair when path is empty.
func readCandidates(path string, symbolCount int) ([]models.Pair, error) {
	if path == "" {
		return models.AllPairs(symbolCount), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidates file: %w", err)
	}
	defer f.Close()

	candidates, err := parser.ParsePairs(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse candidates %s: %w", path, err)
	}
	return candidates, nil
}

func explainQuery(out io.Writer, candidates []models.Pair, q models.Pair, table *relation.Table) error {
	indices, err := resolver.Dominators(candidates, q, table)
	if err != nil {
		return fmt.Errorf("failed to explain query %v: %w", q, err)
	}
	for _, i := range indices {
		if _, err := fmt.Fprintf(out, "  %v dominated by candidate %d %v\n", q, i+1, candidates[i]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func saveRun(ctx context.Context, cfg config.StorageConfig, run *models.Run) error {
	store, err := storage.New(cfg.DBPath, cfg.MaxRuns)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}
	removed, err := store.RotateRuns(ctx)
	if err != nil {
		return err
	}
	logger.Debug("Stored run %s (rotated out %d old runs)", run.ID, removed)
	return nil
}

// printHistory writes the most recent stored runs, newest first, one line per
// run followed by its counts.
func printHistory(ctx context.Context, cfg config.StorageConfig, out io.Writer, limit int) error {
	store, err := storage.New(cfg.DBPath, cfg.MaxRuns)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	for _, summary := range runs {
		rec, err := store.GetRun(ctx, summary.ID)
		if err != nil {
			return err
		}
		counts := make([]string, 0, len(rec.Results))
		for _, c := range rec.Counts() {
			counts = append(counts, strconv.FormatUint(uint64(c), 10))
		}
		_, err = fmt.Fprintf(out, "%s %s %s symbols=%d candidates=%d counts=[%s]\n",
			rec.ID, rec.CreatedAt.UTC().Format(time.RFC3339), rec.Source,
			rec.SymbolCount, rec.CandidateCount, strings.Join(counts, " "))
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	logger.Debug("Listed %d stored runs", len(runs))
	return nil
}
