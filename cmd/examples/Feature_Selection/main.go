package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/HisDaoMaterials/data-engine/pkg/config"
	"github.com/HisDaoMaterials/data-engine/pkg/data"
	"github.com/HisDaoMaterials/data-engine/pkg/dataprep"
	"github.com/HisDaoMaterials/data-engine/pkg/explorer"
	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/logging"
	"github.com/HisDaoMaterials/data-engine/pkg/pipeline"
	"github.com/HisDaoMaterials/data-engine/pkg/selection"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --config         : Optional TOML config file; flags below override it
// --input          : Path to input CSV file
// --output         : Path to save the reduced CSV. Default = ./selected_<input>
// --heatmap        : Path of the correlation heatmap image (png/svg/pdf). Empty = skip
// --method         : Correlation method: pearson, kendall, spearman
// --vif-threshold  : Drop features while the highest VIF is >= threshold. Default = 10
// --missing-thresh : Drop columns with > threshold fraction missing values. Default = 0.2
// --encode         : Encoding for categorical columns before VIF: none, label, onehot, freq
// --log-level      : debug, info, warn, error
// --seq-url        : Also ship logs to a Seq server
//
// Example:
//   go run ./cmd/examples/Feature_Selection --input Employee.csv --heatmap corr.png --vif-threshold 5
//
// ---------------------------------------------------------------------
//

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lvl, _ := cfg.LogLevel()
	logger, closeLog := logging.Setup(logging.Options{Level: lvl, Out: os.Stdout, SeqURL: cfg.Log.SeqURL})
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("feature selection failed", "err", err)
		closeLog()
		os.Exit(1)
	}
	closeLog()
}

func loadConfig() (config.Config, error) {
	configPath := flag.String("config", "", "Path to TOML config file")
	inputPath := flag.String("input", "", "Path to input CSV file")
	outputPath := flag.String("output", "", "Path to save the reduced CSV")
	heatmapPath := flag.String("heatmap", "", "Path of the correlation heatmap image")
	method := flag.String("method", "", "Correlation method: pearson, kendall, spearman")
	vifThreshold := flag.Float64("vif-threshold", 0, "VIF threshold (0 = config/default)")
	missingThresh := flag.Float64("missing-thresh", -1, "Threshold for dropping columns with too many missing values")
	encode := flag.String("encode", "", "Encoding: none, label, onehot, freq")
	logLevel := flag.String("log-level", "", "Log level")
	seqURL := flag.String("seq-url", "", "Seq server URL")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	// ---- Flag overrides ----
	setString(&cfg.Input.Path, *inputPath)
	setString(&cfg.Output.Path, *outputPath)
	setString(&cfg.Heatmap.Path, *heatmapPath)
	setString(&cfg.Heatmap.Method, *method)
	setString(&cfg.Prep.Encode, *encode)
	setString(&cfg.Log.Level, *logLevel)
	setString(&cfg.Log.SeqURL, *seqURL)
	if *vifThreshold != 0 {
		cfg.VIF.Threshold = *vifThreshold
	}
	if *missingThresh >= 0 {
		cfg.Prep.MissingThreshold = *missingThresh
	}

	if cfg.Input.Path == "" {
		return cfg, fmt.Errorf("no input: pass --input or set [input].path")
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = filepath.Join(".", "selected_"+filepath.Base(cfg.Input.Path))
	}
	return cfg, cfg.Validate()
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	// ---- Load raw CSV ----
	readOpts := []data.ReadOption{data.WithCategorical(cfg.Input.Categorical...)}
	if cfg.Input.Comma != "" {
		readOpts = append(readOpts, data.WithComma([]rune(cfg.Input.Comma)[0]))
	}
	raw, err := data.LoadCSV(cfg.Input.Path, readOpts...)
	if err != nil {
		return err
	}
	logger.Info("loaded table",
		"path", cfg.Input.Path,
		"rows", raw.NumRows(),
		"cols", raw.NumCols(),
		"numerical", dataprep.NumericalFeatureNames(raw),
		"categorical", dataprep.CategoricalFeatureNames(raw),
	)

	// ---- Cleaning and encoding ----
	prep := pipeline.NewPipeline(logger,
		pipeline.StepFunc("drop-missing", func(t *frame.Table) (*frame.Table, error) {
			return dataprep.DropMissingFeatures(t, cfg.Prep.MissingThreshold, logger)
		}),
		pipeline.StepFunc("impute", func(t *frame.Table) (*frame.Table, error) {
			return dataprep.Impute(t, cfg.ImputeOptions())
		}),
	)
	if cfg.Prep.ClipUpper > 0 {
		prep.Add(pipeline.StepFunc("clip-outliers", func(t *frame.Table) (*frame.Table, error) {
			return dataprep.ClipOutliers(t, cfg.Prep.ClipLower, cfg.Prep.ClipUpper)
		}))
	}
	if cfg.Prep.Encode != "" && cfg.Prep.Encode != "none" {
		prep.Add(pipeline.StepFunc("encode", func(t *frame.Table) (*frame.Table, error) {
			out, _, err := dataprep.EncodeCategorical(t, dataprep.Encoding(cfg.Prep.Encode))
			return out, err
		}))
	}
	if cfg.Prep.VarianceThreshold > 0 {
		prep.Add(pipeline.StepFunc("low-variance", func(t *frame.Table) (*frame.Table, error) {
			return selection.DropLowVarianceFeatures(t, cfg.Prep.VarianceThreshold, selection.WithLogger(logger))
		}))
	}
	cleaned, err := prep.Run(raw)
	if err != nil {
		return err
	}

	// ---- Correlation heatmap ----
	if cfg.Heatmap.Path != "" {
		opts, err := cfg.HeatmapOptions()
		if err != nil {
			return err
		}
		if err := explorer.SaveCorrelationHeatmap(cfg.Heatmap.Path, cleaned, opts); err != nil {
			return err
		}
		logger.Info("saved correlation heatmap", "path", cfg.Heatmap.Path, "method", opts.Method)
	}

	// ---- VIF pruning on numerical features ----
	result := cleaned
	if cfg.VIF.Enabled {
		numeric := dataprep.NumericalColumns(cleaned)
		kept, err := selection.DropHighVIFFeatures(numeric, cfg.VIF.Threshold, selection.WithLogger(logger))
		if err != nil {
			return err
		}
		var dropped []string
		for _, name := range numeric.Names() {
			if !kept.Has(name) {
				dropped = append(dropped, name)
			}
		}
		if result, err = cleaned.Drop(dropped...); err != nil {
			return err
		}

		report, err := selection.ComputeVIF(kept)
		if err != nil {
			return err
		}
		printReport(report.Sorted())
	}

	// ---- Output ----
	if err := data.SaveCSV(cfg.Output.Path, result); err != nil {
		return err
	}
	logger.Info("saved selected features", "path", cfg.Output.Path, "cols", result.NumCols())
	return nil
}

// printReport prints the final VIF scores, highest first.
func printReport(report selection.VIFReport) {
	fmt.Printf("%-24s%12s\n", "Feature", "VIF")
	for _, s := range report {
		fmt.Printf("%-24s%12.4f\n", s.Feature, s.VIF)
	}
}
