// Package main throws quantum dice on the in-process register simulator and
// prints how often each face came up.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/theapemachine/qdie"
	"github.com/theapemachine/qdie/ledger"
)

func main() {
	cfg, err := qdie.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var (
		sides      int
		throws     int
		octahedral bool
		grover     string
		seed       uint64
	)

	flag.IntVar(&sides, "sides", 5, "number of die faces")
	flag.IntVar(&throws, "throws", 100, "number of throws")
	flag.BoolVar(&octahedral, "octahedral", false, "throw the three-trial d8 instead")
	flag.StringVar(&grover, "grover", "", "run one amplification step, as width:marked")
	flag.Uint64Var(&seed, "seed", cfg.Seed, "simulator seed (0 = random)")
	flag.StringVar(&cfg.LedgerPath, "ledger", cfg.LedgerPath, "record throws to this SQLite file")
	flag.StringVar(&cfg.ChartPath, "chart", cfg.ChartPath, "write an HTML histogram to this file")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel throw workers")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	simOpts := []qdie.SimulatorOption{qdie.WithMaxSlots(cfg.MaxSlots)}
	if seed != 0 {
		simOpts = append(simOpts, qdie.WithSeed(seed))
	}
	sim := qdie.NewSimulator(simOpts...)

	switch {
	case grover != "":
		err = runGrover(ctx, sim, grover)
	case octahedral:
		err = runOctahedral(ctx, sim, throws)
	default:
		err = runDie(ctx, sim, cfg, sides, throws)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDie(ctx context.Context, sim *qdie.Simulator, cfg *qdie.Config, sides, throws int) error {
	plan, err := qdie.Encode(sides)
	if err != nil {
		return err
	}

	q := qdie.NewQ(ctx, sim, cfg, qdie.NewMetrics(prometheus.NewRegistry()))
	defer q.Close()

	outcomes, err := q.Roll(ctx, sides, throws)
	if err != nil {
		return err
	}

	histogram, err := qdie.NewHistogram(sides)
	if err != nil {
		return err
	}

	for _, outcome := range outcomes {
		if err := histogram.Record(outcome); err != nil {
			return err
		}
	}

	for face := 1; face <= sides; face++ {
		fmt.Println(face, histogram.Count(face))
	}
	fmt.Printf("chi2=%.3f uniform=%v\n", histogram.ChiSquare(), histogram.Uniform())

	if cfg.LedgerPath != "" {
		if err := record(ctx, cfg.LedgerPath, plan, outcomes); err != nil {
			return err
		}
	}

	if cfg.ChartPath != "" {
		f, err := os.Create(cfg.ChartPath)
		if err != nil {
			return fmt.Errorf("create chart: %w", err)
		}
		defer f.Close()

		if err := qdie.RenderHistogram(f, fmt.Sprintf("d%d x %d", sides, throws), histogram); err != nil {
			return err
		}
		fmt.Println("Histogram page:", cfg.ChartPath)
	}

	return nil
}

func record(ctx context.Context, path string, plan *qdie.EncodingPlan, outcomes []int) error {
	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	now := time.Now()
	throws := make([]ledger.Throw, len(outcomes))
	for i, outcome := range outcomes {
		throws[i] = ledger.Throw{
			Sides:     plan.Sides(),
			Outcome:   outcome,
			Plan:      plan.Fingerprint(),
			CreatedAt: now,
		}
	}

	return l.Record(ctx, throws...)
}

func runOctahedral(ctx context.Context, sim *qdie.Simulator, throws int) error {
	histogram, err := qdie.NewHistogram(8)
	if err != nil {
		return err
	}

	for i := 0; i < throws; i++ {
		outcome, err := qdie.ThrowOctahedralDie(ctx, sim)
		if err != nil {
			return err
		}
		if err := histogram.Record(outcome); err != nil {
			return err
		}
	}

	for face := 1; face <= 8; face++ {
		fmt.Println(face, histogram.Count(face))
	}

	return nil
}

func runGrover(ctx context.Context, sim *qdie.Simulator, spec string) error {
	width, marked, ok := strings.Cut(spec, ":")
	if !ok {
		return fmt.Errorf("grover wants width:marked, got %q", spec)
	}

	w, err := strconv.Atoi(width)
	if err != nil {
		return fmt.Errorf("grover width: %w", err)
	}

	m, err := strconv.Atoi(marked)
	if err != nil {
		return fmt.Errorf("grover marked: %w", err)
	}

	result, err := qdie.Amplify(ctx, sim, w, m)
	if err != nil {
		return err
	}

	for i, amplitude := range result.Amplitudes {
		fmt.Printf("%0*b % .4f\n", w, i, amplitude)
	}
	fmt.Printf("P(%d)=%.4f\n", m, result.SuccessProbability())

	return nil
}
