package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/marklet/internal/build"
	"github.com/conneroisu/marklet/internal/config"
	"github.com/conneroisu/marklet/internal/logging"
)

var buildCmd = &cobra.Command{
	Use:     "build [component...]",
	Aliases: []string{"b"},
	Short:   "Compile components into the bookmarklet artifacts",
	Long: `Compile component files into the aggregated loader script, the javascript:
bookmarklet URI and the install page. With component names as arguments, only
those components are built.

Examples:
  marklet build                   # Build everything under the scan paths
  marklet build clock             # Build only the clock component
  marklet build --no-minify       # Keep sections readable for debugging
  marklet build --compress        # Also emit a gzipped loader
  marklet build --analyze         # Also emit manifest.json with build details
  marklet build --clean -o out    # Clean stale artifacts, write into out/`,
	RunE: runBuild,
}

var (
	buildOutput   string
	buildMinify   bool
	buildNoMinify bool
	buildCompress bool
	buildAnalyze  bool
	buildClean    bool
	buildWorkers  int
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (default from config, dist)")
	buildCmd.Flags().BoolVar(&buildMinify, "minify", true, "Minify sections and the aggregated loader")
	buildCmd.Flags().BoolVar(&buildNoMinify, "no-minify", false, "Disable minification")
	buildCmd.Flags().BoolVar(&buildCompress, "compress", false, "Also write a gzipped copy of the loader")
	buildCmd.Flags().BoolVar(&buildAnalyze, "analyze", false, "Also write manifest.json with build details")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove artifacts from previous builds first")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "Compile workers (0 = one per CPU, capped at 8)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyBuildFlags(cmd, cfg)
	if buildWorkers < 0 || buildWorkers > config.MaxWorkers {
		return fmt.Errorf("workers must be between 0 and %d, got %d", config.MaxWorkers, buildWorkers)
	}
	cfg.TargetComponents = args

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: "text",
	})

	fmt.Println("🔨 Building bookmarklet...")

	pipeline := build.New(cfg, logger)
	defer func() {
		if closeErr := pipeline.Close(); closeErr != nil {
			fmt.Println("Warning: error shutting down pipeline:", closeErr)
		}
	}()

	result, err := pipeline.Run(cmd.Context(), build.RunOptions{
		Analyze: buildAnalyze,
		Clean:   buildClean,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Build completed in %v\n", time.Since(startTime).Round(time.Millisecond))
	if result.CacheHits > 0 {
		fmt.Printf("   - %d components compiled (%d from cache)\n", len(result.Components), result.CacheHits)
	} else {
		fmt.Printf("   - %d components compiled\n", len(result.Components))
	}
	fmt.Printf("   - bookmarklet URI: %d bytes\n", len(result.URI))
	for _, artifact := range result.Artifacts {
		if artifact.GzipSize > 0 {
			fmt.Printf("   - %s (%d bytes, %d gzipped)\n", artifact.Path, artifact.Size, artifact.GzipSize)
		} else {
			fmt.Printf("   - %s (%d bytes)\n", artifact.Path, artifact.Size)
		}
	}
	fmt.Printf("\nOpen %s/install.html and drag the link to your bookmarks bar.\n", cfg.Build.Output)

	return nil
}

// applyBuildFlags lets changed flags override the loaded configuration.
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Build.Output = buildOutput
	}
	if cmd.Flags().Changed("workers") {
		cfg.Build.Workers = buildWorkers
	}
	if cmd.Flags().Changed("compress") {
		cfg.Build.Compress = buildCompress
	}
	if cmd.Flags().Changed("minify") {
		cfg.Build.Minify = buildMinify
	}
	// --no-minify wins over --minify and the config file.
	if buildNoMinify {
		cfg.Build.Minify = false
	}
}
