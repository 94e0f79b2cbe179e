package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/plot/vg"

	"github.com/HisDaoMaterials/data-engine/pkg/dataprep"
	"github.com/HisDaoMaterials/data-engine/pkg/explorer"
	"github.com/HisDaoMaterials/data-engine/pkg/selection"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

// Config drives the feature selection CLI.
type Config struct {
	Input   InputConfig   `toml:"input"`
	Output  OutputConfig  `toml:"output"`
	Prep    PrepConfig    `toml:"prep"`
	Heatmap HeatmapConfig `toml:"heatmap"`
	VIF     VIFConfig     `toml:"vif"`
	Log     LogConfig     `toml:"log"`
}

type InputConfig struct {
	Path        string   `toml:"path"`
	Categorical []string `toml:"categorical"`
	Comma       string   `toml:"comma"`
}

type OutputConfig struct {
	Path string `toml:"path"`
}

type PrepConfig struct {
	MissingThreshold    float64 `toml:"missing_threshold"`
	NumericStrategy     string  `toml:"numeric_strategy"`
	CategoricalStrategy string  `toml:"categorical_strategy"`
	Encode              string  `toml:"encode"` // none, label, onehot, freq
	VarianceThreshold   float64 `toml:"variance_threshold"`
	ClipLower           float64 `toml:"clip_lower"` // percentile; clip_upper = 0 disables clipping
	ClipUpper           float64 `toml:"clip_upper"`
}

type HeatmapConfig struct {
	Path        string  `toml:"path"` // empty disables the heatmap
	Title       string  `toml:"title"`
	Method      string  `toml:"method"`
	Annotate    bool    `toml:"annotate"`
	ValueFormat string  `toml:"value_format"`
	Colormap    string  `toml:"colormap"`
	Square      bool    `toml:"square"`
	VMin        float64 `toml:"vmin"`
	VMax        float64 `toml:"vmax"`
	AutoRange   bool    `toml:"auto_range"` // ignore vmin/vmax, use the data's range
	WidthIn     float64 `toml:"width_in"`
	HeightIn    float64 `toml:"height_in"`
}

type VIFConfig struct {
	Enabled   bool    `toml:"enabled"`
	Threshold float64 `toml:"threshold"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	SeqURL string `toml:"seq_url"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	hm := explorer.DefaultHeatmapOptions()
	return Config{
		Input: InputConfig{Comma: ","},
		Prep: PrepConfig{
			MissingThreshold:    0.2,
			NumericStrategy:     string(dataprep.Mean),
			CategoricalStrategy: string(dataprep.Mode),
			Encode:              "none",
		},
		Heatmap: HeatmapConfig{
			Title:       hm.Title,
			Method:      string(hm.Method),
			Annotate:    hm.Annotate,
			ValueFormat: hm.ValueFormat,
			Colormap:    hm.Colormap,
			Square:      hm.Square,
			VMin:        hm.VMin,
			VMax:        hm.VMax,
			WidthIn:     float64(hm.Width / vg.Inch),
			HeightIn:    float64(hm.Height / vg.Inch),
		},
		VIF: VIFConfig{Enabled: true, Threshold: selection.DefaultVIFThreshold},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if _, err := stats.ParseMethod(c.Heatmap.Method); err != nil {
		return err
	}
	if c.VIF.Enabled && !(c.VIF.Threshold > 0) {
		return fmt.Errorf("%w: vif threshold %v", selection.ErrInvalidThreshold, c.VIF.Threshold)
	}
	if len([]rune(c.Input.Comma)) > 1 {
		return fmt.Errorf("input comma must be a single character, got %q", c.Input.Comma)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// HeatmapOptions converts the heatmap section for the explorer package.
func (c Config) HeatmapOptions() (explorer.HeatmapOptions, error) {
	m, err := stats.ParseMethod(c.Heatmap.Method)
	if err != nil {
		return explorer.HeatmapOptions{}, err
	}
	opts := explorer.DefaultHeatmapOptions()
	opts.Title = c.Heatmap.Title
	opts.Method = m
	opts.Annotate = c.Heatmap.Annotate
	opts.ValueFormat = c.Heatmap.ValueFormat
	opts.Colormap = c.Heatmap.Colormap
	opts.Square = c.Heatmap.Square
	opts.VMin, opts.VMax = c.Heatmap.VMin, c.Heatmap.VMax
	opts.AutoRange = c.Heatmap.AutoRange
	opts.Width = vg.Length(c.Heatmap.WidthIn) * vg.Inch
	opts.Height = vg.Length(c.Heatmap.HeightIn) * vg.Inch
	return opts, nil
}

// ImputeOptions converts the prep section for the dataprep package.
func (c Config) ImputeOptions() dataprep.ImputeOptions {
	opts := dataprep.DefaultImputeOptions()
	opts.Numeric = dataprep.Strategy(c.Prep.NumericStrategy)
	opts.Categorical = dataprep.Strategy(c.Prep.CategoricalStrategy)
	return opts
}

// LogLevel parses the log level name (debug, info, warn, error).
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
