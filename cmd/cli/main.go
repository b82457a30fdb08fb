package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/limaJavier/beeplan/internal/config"
	"github.com/limaJavier/beeplan/internal/logging"
	"github.com/limaJavier/beeplan/pkg/export"
	"github.com/limaJavier/beeplan/pkg/model"
	"github.com/limaJavier/beeplan/pkg/scheduler"
	"go.uber.org/zap"
)

const (
	exitSolved             = 10
	exitVerificationFailed = 15
	exitUnsatisfiable      = 20
	exitBudgetExhausted    = 30
)

var validFormats = []string{export.FormatJSON, export.FormatCSV}

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the input file (.json, .yaml or .yml)")
	configPathPtr := flag.String("config", "", "Path to a YAML config file; if empty, defaults are used")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	formatPtr := flag.String("format", "", "Output format. Allowed values are: \"json\", \"csv\"; overrides the config file")
	budgetPtr := flag.Int("budget", -1, "Maximum number of candidates the search may evaluate, where 0 means unlimited; overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if *formatPtr != "" {
		cfg.OutputFormat = strings.ToLower(*formatPtr)
	}
	if *budgetPtr >= 0 {
		cfg.NodeBudget = *budgetPtr
	}

	// Validate arguments
	if *filePathPtr == "" {
		log.Fatal("an input file must be specified")
	} else if !slices.Contains(validFormats, cfg.OutputFormat) {
		log.Fatalf("%v is not a valid output format", cfg.OutputFormat)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	// Extract input
	input, err := model.InputFromFile(*filePathPtr, model.NewUUIDGenerator(), logger)
	if err != nil {
		logger.Fatal("cannot parse input file", zap.String("file", *filePathPtr), zap.Error(err))
	}

	// Build schedule
	engine := scheduler.NewBacktrackingScheduler(
		scheduler.WithNodeBudget(cfg.NodeBudget),
		scheduler.WithLogger(logger),
	)
	schedule, stats, err := engine.Build(input)

	switch {
	case errors.Is(err, scheduler.ErrUnsatisfiable):
		printStats(stats)
		exit(logger, exitUnsatisfiable)
	case errors.Is(err, scheduler.ErrBudgetExhausted):
		printStats(stats)
		exit(logger, exitBudgetExhausted)
	case err != nil:
		logger.Fatal("an error occurred during schedule construction", zap.Error(err))
	}

	// Verify schedule correctness
	if !engine.Verify(schedule, input) {
		for _, violation := range scheduler.Report(schedule, input) {
			fmt.Fprintln(os.Stderr, violation)
		}
		printStats(stats)
		exit(logger, exitVerificationFailed)
	}

	// Write output
	if err := export.WriteFile(*outFilePathPtr, cfg.OutputFormat, export.Rows(schedule)); err != nil {
		logger.Fatal("an error occurred while writing the output", zap.Error(err))
	}

	printStats(stats)
	exit(logger, exitSolved)
}

func printStats(stats scheduler.Stats) {
	fmt.Fprintf(os.Stderr, "Units: %v\n", stats.Units)
	fmt.Fprintf(os.Stderr, "Nodes: %v\n", stats.Nodes)
	fmt.Fprintf(os.Stderr, "Backtracks: %v\n", stats.Backtracks)
	fmt.Fprintf(os.Stderr, "Duration: %v\n", stats.Duration)
}

// os.Exit skips deferred calls, so the logger is flushed here
func exit(logger *zap.Logger, code int) {
	_ = logger.Sync()
	os.Exit(code)
}
