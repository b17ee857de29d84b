package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/fieldlab/internal/automation"
	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/optim"
	"github.com/san-kum/fieldlab/internal/scenario"
	"github.com/san-kum/fieldlab/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sweepParams   []string
	sweepMetric   string
	sweepMaximize bool

	mcTrials  int
	mcPerturb float64
	mcSeed    int64
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func listScenarios(cmd *cobra.Command, args []string) error {
	fmt.Println(headerStyle.Render("wave scenarios"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLEVEL\tSPEED\tDAMPING\tDESCRIPTION")
	for _, sc := range scenario.DefaultCatalog() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.3f\t%s\n",
			sc.ID, sc.Name, sc.Difficulty, sc.WaveSpeed, sc.Damping, sc.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	fields := config.PresetFields()
	if len(args) > 0 {
		fields = args
	}
	for _, f := range fields {
		names := config.ListPresets(f)
		if len(names) == 0 {
			fmt.Printf("no presets for field: %s\n", f)
			continue
		}
		fmt.Println(headerStyle.Render("presets for " + f))
		for _, n := range names {
			p := config.GetPreset(f, n)
			fmt.Printf("  %-8s current %.1f  turns %2d  %2d × %s @ %.1f\n",
				n, p.Magnetic.Current, p.Magnetic.Turns, p.Particles.Count, p.Particles.ChargeMode, p.Particles.Speed)
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("no --param given (sweepable: %s)", strings.Join(optim.Parameters(), ", "))
	}
	base, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, expr, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("param %q: want name=min:max:steps", p)
		}
		values, err := optim.ParseRange(expr)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}

	goal := optim.Minimize
	if sweepMaximize {
		goal = optim.Maximize
	}
	search := optim.NewGridSearch(names, ranges).WithGoal(goal).WithLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("sweeping %d points, %s %s\n", search.Size(), goal, sweepMetric)
	best, value, err := search.Search(ctx, optim.ConfigBuilder(base, quietLogger()), sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(append(append([]string{}, names...), strings.ToUpper(sweepMetric)), "\t"))
	for _, t := range search.Trials() {
		cols := make([]string, 0, len(names)+1)
		for _, n := range names {
			cols = append(cols, fmt.Sprintf("%.4g", t.Params[n]))
		}
		if t.Err != nil {
			cols = append(cols, "error: "+t.Err.Error())
		} else {
			cols = append(cols, fmt.Sprintf("%.6f", t.Value))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Print("\nbest:")
	for _, k := range keys {
		fmt.Printf(" %s=%.4g", k, best[k])
	}
	fmt.Printf(" -> %s = %.6f\n", sweepMetric, value)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	base, err := loadBaseConfig()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := automation.RunScript(ctx, script, base, st, logger)
	for i, r := range results {
		line := fmt.Sprintf("%d. %s: %d ticks", i+1, r.Config.Mode, r.Result.Ticks)
		if r.RunID != "" {
			line += " -> " + r.RunID
		}
		fmt.Println(line)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd, []string{"magnetic"})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Base:         base,
		Perturbation: mcPerturb,
		NumTrials:    mcTrials,
		Seed:         mcSeed,
	}, quietLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tCURRENT\tCHARGE SPEED\tBOUNCES\tMAX SPEED\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%d\t%.3f\t%v\n", r.TrialID, r.Current, r.ChargeSpeed, r.Bounces, r.MaxSpeed, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}
