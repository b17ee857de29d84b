package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fieldlab/internal/analysis"
	"github.com/san-kum/fieldlab/internal/audio"
	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/experiment"
	"github.com/san-kum/fieldlab/internal/export"
	"github.com/san-kum/fieldlab/internal/physics"
	"github.com/san-kum/fieldlab/internal/scenario"
	"github.com/san-kum/fieldlab/internal/storage"
	"github.com/spf13/cobra"
)

var (
	svgKind string
	outFile string
	octaves float64
)

// divergence probe settings for analyze
const (
	divergenceTicks        = 600
	divergencePerturbation = 0.5
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tDURATION\tSETUP\tTICKS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%s\t%d\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			setupSummary(run),
			run.Ticks,
		)
	}

	return w.Flush()
}

func setupSummary(m storage.RunMetadata) string {
	if m.Mode == experiment.ModeMagnetic {
		return fmt.Sprintf("%s %.1fA %d×%s", m.Field, m.Current, m.Particles, m.ChargeMode)
	}
	if m.Scenario != "" {
		return m.Scenario
	}
	return "custom sources"
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, probe, err := st.LoadProbe(runID)
	if err != nil {
		return err
	}
	if len(probe) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s (%s)\n", meta.Mode, setupSummary(*meta))
	fmt.Printf("samples: %d\n\n", len(probe))

	graph := asciigraph.Plot(probe,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("probe amplitude at (%.0f, %.0f)", meta.ProbeX, meta.ProbeY)),
	)
	fmt.Println(graph)

	snaps, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	if len(snaps) > 0 {
		fmt.Println("\nparticle trajectories:")
		fmt.Print(analysis.TrajectoryToASCII(snaps, 60, 25))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, probe, err := st.LoadProbe(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("sample rate: %.2f Hz\n\n", meta.SampleRate())

	freq, mag := analysis.DominantFrequency(probe, meta.SampleRate())
	fmt.Println("probe spectrum:")
	fmt.Printf("  dominant frequency: %.4f Hz (power %.4f)\n", freq, mag)
	fmt.Printf("  zero-crossing frequency: %.4f Hz\n", analysis.CrossingFrequency(times, probe))

	if meta.Mode != experiment.ModeMagnetic {
		return nil
	}

	snaps, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 || len(snaps[0].Particles) == 0 {
		return nil
	}

	mag0 := config.DefaultConfig().Magnetic
	mag0.Field, mag0.Current, mag0.Turns = meta.Field, meta.Current, meta.Turns
	src, err := mag0.Source()
	if err != nil {
		return err
	}
	lambda := analysis.TrajectoryDivergence(src, mag0.Plane(), snaps[0].Particles[0],
		divergencePerturbation, divergenceTicks, meta.ChargeSpeed)
	fmt.Println("\ntrajectory divergence:")
	fmt.Printf("  rate: %.6f per tick\n", lambda)
	if lambda > 0.01 {
		fmt.Println("  nearby charges separate: sensitive to initial conditions")
	} else {
		fmt.Println("  nearby charges stay together")
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	kind := svgKind
	if kind == "" {
		kind = "probe"
		if meta.Mode == experiment.ModeMagnetic {
			kind = "trails"
		}
	}

	var svg string
	switch kind {
	case "probe":
		_, probe, err := st.LoadProbe(runID)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(probe, 800, 300)
	case "trails":
		snaps, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		svg = export.TrailsToSVG(snaps, physics.DefaultPlane, 600, 600)
	case "grid":
		params, err := waveParamsFor(meta)
		if err != nil {
			return err
		}
		g := physics.SampleGrid(params, atTime, 80, 80, physics.SampleOptions{})
		svg = export.GridToSVG(g, 8)
	default:
		return fmt.Errorf("unknown svg kind %q (want probe, trails or grid)", kind)
	}
	if svg == "" {
		return fmt.Errorf("run %s has no %s data", runID, kind)
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err = io.WriteString(w, svg+"\n")
	return err
}

// waveParamsFor rebuilds the wave parameters of a saved run.
func waveParamsFor(meta *storage.RunMetadata) (physics.WaveParams, error) {
	store := scenario.NewDefault()
	if meta.Scenario != "" {
		if _, err := store.Select(meta.Scenario); err != nil {
			return physics.WaveParams{}, err
		}
	}
	return store.Live(), nil
}

func sonifyRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	_, probe, err := st.LoadProbe(runID)
	if err != nil {
		return err
	}
	rate := meta.SampleRate()
	if len(probe) == 0 || rate <= 0 {
		return fmt.Errorf("run %s has no probe data", runID)
	}

	voice := audio.DefaultVoice()
	voice.Octaves = octaves
	samples := voice.Sonify(probe, rate)

	path := outFile
	if path == "" {
		path = runID + ".wav"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, samples, audio.SampleRate); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%.1fs)\n", path, float64(len(samples))/audio.SampleRate)
	return nil
}
