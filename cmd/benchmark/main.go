package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/beeplan/pkg/model"
	"github.com/limaJavier/beeplan/pkg/scheduler"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	satisfiableTestDirectory   = "satisfiable"
	unsatisfiableTestDirectory = "unsatisfiable"
	resultsFile                = "benchmark_results.csv"
)

type ResultType int

const (
	solved ResultType = iota
	unsatisfiable
	budgetExhausted
	failed
)

var (
	resultTypes = map[ResultType]string{
		solved:          "solved",
		unsatisfiable:   "unsatisfiable",
		budgetExhausted: "budget-exhausted",
		failed:          "failed",
	}
	budgets = []int{0, 100_000, 10_000}
)

type TestMetadata struct {
	Name        string
	Satisfiable bool
	Input       model.ModelInput
}

type BenchmarkResult struct {
	Test        string `csv:"test"`
	Satisfiable bool   `csv:"satisfiable"`
	Courses     int    `csv:"courses"`
	Units       int    `csv:"units"`
	Rooms       int    `csv:"rooms"`
	Slots       int    `csv:"slots"`
	Budget      int    `csv:"budget"`
	Nodes       int    `csv:"nodes"`
	Backtracks  int    `csv:"backtracks"`
	Duration    int64  `csv:"duration_ms"`
	Verified    bool   `csv:"verified"`
	Result      string `csv:"result"`
}

func main() {
	directoryPtr := flag.String("dir", "test", "Directory holding the \"satisfiable\" and \"unsatisfiable\" test folders")
	flag.Parse()

	tests := getTests(*directoryPtr)
	results := make([]*BenchmarkResult, 0, len(tests)*len(budgets))

	for _, test := range tests {
		for _, budget := range budgets {
			fmt.Printf("Benchmarking test \"%v\" with budget \"%v\"\n", test.Name, budget)
			results = append(results, measure(test, budget))
		}
	}

	toCsv(results)
}

func getTests(root string) []TestMetadata {
	tests := make([]TestMetadata, 0)
	for _, tuple := range lo.Zip2([]string{satisfiableTestDirectory, unsatisfiableTestDirectory}, []bool{true, false}) {
		directory, satisfiable := filepath.Join(root, tuple.A), tuple.B
		testFiles, err := os.ReadDir(directory)
		if err != nil {
			log.Fatalf("cannot read directory: %v", err)
		}

		for _, file := range testFiles {
			if file.IsDir() {
				continue
			}
			filename := filepath.Join(directory, file.Name())
			input, err := model.InputFromFile(filename, model.NewSequentialGenerator("course"), zap.NewNop())
			if err != nil {
				log.Fatalf("cannot parse input file %v: %v", filename, err)
			}

			tests = append(tests, TestMetadata{
				Name:        filename,
				Satisfiable: satisfiable,
				Input:       input,
			})
		}
	}

	return tests
}

func measure(test TestMetadata, budget int) *BenchmarkResult {
	engine := scheduler.NewBacktrackingScheduler(scheduler.WithNodeBudget(budget))
	schedule, stats, err := engine.Build(test.Input)

	return &BenchmarkResult{
		Test:        test.Name,
		Satisfiable: test.Satisfiable,
		Courses:     len(test.Input.Courses),
		Units:       stats.Units,
		Rooms:       len(test.Input.Rooms),
		Slots:       len(test.Input.TimeSlots),
		Budget:      budget,
		Nodes:       stats.Nodes,
		Backtracks:  stats.Backtracks,
		Duration:    stats.Duration.Milliseconds(),
		Verified:    err == nil && engine.Verify(schedule, test.Input),
		Result:      resultTypes[classify(err)],
	}
}

func classify(err error) ResultType {
	switch {
	case err == nil:
		return solved
	case errors.Is(err, scheduler.ErrUnsatisfiable):
		return unsatisfiable
	case errors.Is(err, scheduler.ErrBudgetExhausted):
		return budgetExhausted
	}
	return failed
}

func toCsv(results []*BenchmarkResult) {
	file, err := os.Create(resultsFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}
