package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/relieftext/reliefocr/internal/config"
	"github.com/relieftext/reliefocr/internal/geometry"
	"github.com/relieftext/reliefocr/internal/inference"
	"github.com/relieftext/reliefocr/internal/orchestrate"
	"github.com/relieftext/reliefocr/internal/recognizerproc"
)

var processCmd = &cobra.Command{
	Use:   "process [image-path]",
	Short: "Run detection and recognition on a single image and print JSON results",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("process: open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("process: decode image: %w", err)
	}

	pipelineCfg, closeEngines, err := buildPipelineConfig(cfg)
	if err != nil {
		return err
	}
	defer closeEngines()

	result, err := orchestrate.Pipeline(pipelineCfg)(context.Background(), img)
	if err != nil {
		return fmt.Errorf("process: run pipeline: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// buildPipelineConfig wires up both model engines and the recognizer
// dictionary from a loaded Config. Session construction is isolated here so
// the serve command can reuse it.
func buildPipelineConfig(cfg config.Config) (orchestrate.Config, func(), error) {
	detSession, err := inference.NewONNXSession(cfg.Detector.ModelPath, cfg.Detector.InputName, cfg.Detector.OutputName)
	if err != nil {
		return orchestrate.Config{}, func() {}, fmt.Errorf("process: detector session: %w", err)
	}
	recSession, err := inference.NewONNXSession(cfg.Recognizer.ModelPath, cfg.Recognizer.InputName, cfg.Recognizer.OutputName)
	if err != nil {
		detSession.Close()
		return orchestrate.Config{}, func() {}, fmt.Errorf("process: recognizer session: %w", err)
	}

	detEngine := inference.New(detSession, inference.Config{MaxConcurrency: cfg.Detector.MaxConcurrency, Name: "detector"})
	recEngine := inference.New(recSession, inference.Config{MaxConcurrency: cfg.Recognizer.MaxConcurrency, Name: "recognizer"})

	dictFile, err := os.Open(cfg.Recognizer.DictionaryPath)
	if err != nil {
		detEngine.Close()
		recEngine.Close()
		return orchestrate.Config{}, func() {}, fmt.Errorf("process: open dictionary: %w", err)
	}
	defer dictFile.Close()
	dict, err := recognizerproc.NewDictionary(dictFile)
	if err != nil {
		detEngine.Close()
		recEngine.Close()
		return orchestrate.Config{}, func() {}, fmt.Errorf("process: load dictionary: %w", err)
	}

	pc := orchestrate.Config{
		DetectorEngine:   detEngine,
		RecognizerEngine: recEngine,
		Dictionary:       dict,
		GeometryOptions: geometry.Options{
			BinarizeThreshold: cfg.Detector.BinarizeThreshold,
			MinScore:          cfg.Detector.MinScore,
			SimplifyEpsilon:   cfg.Detector.SimplifyEpsilon,
			MinArea:           geometry.DefaultOptions().MinArea,
		},
	}
	closeFn := func() {
		if err := detEngine.Close(); err != nil {
			slog.Error("close detector engine", "error", err)
		}
		if err := recEngine.Close(); err != nil {
			slog.Error("close recognizer engine", "error", err)
		}
	}
	return pc, closeFn, nil
}
