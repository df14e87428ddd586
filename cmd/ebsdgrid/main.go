package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ebsdgrid/internal/observability"
	"ebsdgrid/pkg/config"
	"ebsdgrid/pkg/export"
	"ebsdgrid/pkg/reconstruction"
	"ebsdgrid/pkg/visualization"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("reconstruction failed")
	}
}

func run(args []string, stdout io.Writer) error {
	// Parse command line arguments
	fs := flag.NewFlagSet("ebsdgrid", flag.ContinueOnError)
	inputFile := fs.String("input", "", "CSV export of the microstructure scan")
	configPath := fs.String("config", "ebsdgrid.yaml", "Configuration file (.yaml or .toml)")
	stepSize := fs.Float64("step", 0, "Physical distance per grid cell (overrides config)")
	outputDir := fs.String("output", "", "Output directory (overrides config)")
	imageScale := fs.Int("image-scale", 0, "Image pixels per grid cell (overrides config)")
	phases := fs.Bool("phases", false, "Colour the grain map by phase instead of grain")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	initConfig := fs.Bool("init-config", false, "Write a default configuration file to -config and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Default configuration written to: %s\n", *configPath)
		return nil
	}

	// Validate inputs
	if *inputFile == "" {
		fs.Usage()
		return fmt.Errorf("missing -input")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *stepSize != 0 {
		cfg.Processing.StepSize = *stepSize
	}
	if *outputDir != "" {
		cfg.Output.Directory = *outputDir
	}
	if *imageScale != 0 {
		cfg.Output.ImageScale = *imageScale
	}
	if *verbose {
		cfg.Output.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger("ebsdgrid", cfg.Output.Verbose)
	logger.Info().Str("config", *configPath).Float64("stepSize", cfg.Processing.StepSize).Msg("loaded configuration")

	// Initialize reconstruction parameters
	params := &reconstruction.Params{
		StepSize: cfg.Processing.StepSize,
		Scan:     cfg.ScanOptions(),
	}

	// Run the reconstruction pass
	startTime := time.Now()
	res, err := reconstruction.NewReconstructor(params, logger).ProcessFile(*inputFile)
	if err != nil {
		return err
	}
	processingTime := time.Since(startTime)

	if err := writeOutputs(cfg, res, *phases, logger); err != nil {
		return err
	}

	printSummary(stdout, res, processingTime)
	return nil
}

// writeOutputs writes every output enabled in the configuration
func writeOutputs(cfg *config.Config, res *reconstruction.Result, phases bool, logger zerolog.Logger) error {
	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{cfg.Output.SPNFile, func(w io.Writer) error { return export.WriteSPN(w, res.Grid) }},
		{cfg.Output.GrainFile, func(w io.Writer) error { return export.WriteGrainCSV(w, res.Grains) }},
		{cfg.Output.OrientationFile, func(w io.Writer) error { return export.WriteOrientations(w, res.Grains) }},
	}

	for _, out := range outputs {
		path := cfg.OutputPath(out.name)
		if path == "" {
			continue
		}
		if err := export.WriteFile(path, out.write); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("wrote output")
	}

	if path := cfg.OutputPath(cfg.Output.ImageFile); path != "" {
		viewer := visualization.NewViewer(res.Grid, cfg.Output.ImageScale)
		img := viewer.Render()
		if phases {
			img = viewer.RenderPhases(res.Grains)
		}
		if err := viewer.SaveImage(img, path); err != nil {
			return fmt.Errorf("failed to save grain map: %w", err)
		}
		logger.Info().Str("path", path).Msg("wrote grain map")
	}

	return nil
}

func printSummary(w io.Writer, res *reconstruction.Result, elapsed time.Duration) {
	stats := reconstruction.ComputeStatistics(res)

	fmt.Fprintf(w, "\nReconstruction completed in %.3f seconds\n", elapsed.Seconds())
	fmt.Fprintf(w, "Grid: %d cols x %d rows (step %g)\n", res.Sizing.Cols, res.Sizing.Rows, res.Sizing.StepSize)
	fmt.Fprintf(w, "Records: %d (%d carried forward)\n", res.Read.Records, res.Read.Substituted)
	fmt.Fprintf(w, "Grains: %d\n", stats.Grains)
	fmt.Fprintf(w, "Void fraction: %.4f\n", stats.VoidFraction)
	fmt.Fprintf(w, "Grain size (pixels): mean %.2f, std %.2f, median %.0f, max %d\n",
		stats.MeanGrainSize, stats.StdGrainSize, stats.MedianGrainSize, stats.MaxGrainSize)

	phaseIDs := make([]int, 0, len(stats.PhaseFractions))
	for id := range stats.PhaseFractions {
		phaseIDs = append(phaseIDs, id)
	}
	sort.Ints(phaseIDs)
	for _, id := range phaseIDs {
		fmt.Fprintf(w, "Phase %d: %.2f%%\n", id, stats.PhaseFractions[id]*100)
	}
}
