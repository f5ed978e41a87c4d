// Package config loads reliefocr's runtime configuration with viper,
// supporting a YAML file, environment variable overrides (RELIEFOCR_ prefix),
// and command-line flag binding, in that increasing order of precedence —
// the same layering the teacher's own config loader uses.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DetectorConfig tunes the detector model and its geometry postprocessing.
type DetectorConfig struct {
	ModelPath         string  `mapstructure:"model_path"`
	InputName         string  `mapstructure:"input_name"`
	OutputName        string  `mapstructure:"output_name"`
	BinarizeThreshold float64 `mapstructure:"binarize_threshold"`
	MinScore          float64 `mapstructure:"min_score"`
	SimplifyEpsilon   float64 `mapstructure:"simplify_epsilon"`
	MaxConcurrency    int     `mapstructure:"max_concurrency"`
}

// RecognizerConfig tunes the recognizer model and its dictionary.
type RecognizerConfig struct {
	ModelPath      string `mapstructure:"model_path"`
	InputName      string `mapstructure:"input_name"`
	OutputName     string `mapstructure:"output_name"`
	DictionaryPath string `mapstructure:"dictionary_path"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
}

// ServerConfig tunes the optional websocket-fronted serve mode.
type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	LogFilePath   string `mapstructure:"log_file_path"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	QueueDepth    int    `mapstructure:"queue_depth"`
}

// Config is the top-level configuration tree.
type Config struct {
	Detector   DetectorConfig   `mapstructure:"detector"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
	Server     ServerConfig     `mapstructure:"server"`
	LogLevel   string           `mapstructure:"log_level"`
}

// Defaults returns the configuration used when no file, environment
// variable, or flag overrides a field.
func Defaults() Config {
	return Config{
		Detector: DetectorConfig{
			InputName:         "x",
			OutputName:        "sigmoid_0.tmp_0",
			BinarizeThreshold: 0.2,
			MinScore:          0.6,
			SimplifyEpsilon:   1.0,
			MaxConcurrency:    4,
		},
		Recognizer: RecognizerConfig{
			InputName:      "x",
			OutputName:     "softmax_0.tmp_0",
			MaxConcurrency: 4,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			LogMaxSizeMB: 100,
			QueueDepth:   64,
		},
		LogLevel: "info",
	}
}

// Load builds a Config by layering, lowest to highest precedence: built-in
// defaults, an optional YAML file at path (skipped if empty or missing),
// RELIEFOCR_-prefixed environment variables, and flags already parsed into
// fs.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RELIEFOCR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Defaults()
	setDefaults(v, def)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("detector.input_name", def.Detector.InputName)
	v.SetDefault("detector.output_name", def.Detector.OutputName)
	v.SetDefault("detector.binarize_threshold", def.Detector.BinarizeThreshold)
	v.SetDefault("detector.min_score", def.Detector.MinScore)
	v.SetDefault("detector.simplify_epsilon", def.Detector.SimplifyEpsilon)
	v.SetDefault("detector.max_concurrency", def.Detector.MaxConcurrency)
	v.SetDefault("recognizer.input_name", def.Recognizer.InputName)
	v.SetDefault("recognizer.output_name", def.Recognizer.OutputName)
	v.SetDefault("recognizer.max_concurrency", def.Recognizer.MaxConcurrency)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.log_max_size_mb", def.Server.LogMaxSizeMB)
	v.SetDefault("server.queue_depth", def.Server.QueueDepth)
	v.SetDefault("log_level", def.LogLevel)
}
