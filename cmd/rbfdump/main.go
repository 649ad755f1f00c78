package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"rbfrl/internal/config"
	"rbfrl/internal/eval"
	"rbfrl/internal/logging"
	"rbfrl/internal/trace"
)

func main() {
	configPath := flag.String("config", "configs/rbf.yaml", "path to config file")
	tracePath := flag.String("trace", "", "path to a trace JSON file (default: grid sweep)")
	saveSweep := flag.String("save-sweep", "", "write the generated sweep trace to this path")
	flag.Parse()

	if err := run(*configPath, *tracePath, *saveSweep); err != nil {
		fmt.Fprintf(os.Stderr, "rbfdump: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, tracePath, saveSweep string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewConsole(cfg.Logging.Level)
	if err != nil {
		return err
	}

	rbf := cfg.NewRBF()
	min, max := rbf.Bounds()
	logger.WithFields(logrus.Fields{
		"dim":          rbf.Dim(),
		"resolution":   rbf.Resolution(),
		"num_actions":  rbf.NumActions(),
		"beta":         rbf.Beta(),
		"min_val":      min,
		"max_val":      max,
		"num_features": rbf.NumFeatures(),
		"size":         rbf.Size(),
	}).Info("built rbf approximator")

	tr, err := loadTrace(cfg, tracePath)
	if err != nil {
		return err
	}
	if tracePath == "" && saveSweep != "" {
		if err := tr.Save(saveSweep); err != nil {
			return err
		}
		logger.WithField("path", saveSweep).Info("saved sweep trace")
	}
	if tr.Dim != 0 && tr.Dim != rbf.Dim() {
		logger.WithFields(logrus.Fields{
			"trace_dim": tr.Dim,
			"rbf_dim":   rbf.Dim(),
		}).Warn("trace was recorded for a different dimension")
	}

	fl, err := logging.NewFeatureLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, cfg.Logging.WriteFeatures, logger)
	if err != nil {
		return err
	}
	defer fl.Close()
	if err := fl.Init(); err != nil {
		return err
	}

	startTime := time.Now()
	results := eval.NewEvaluator(rbf, cfg.Eval.Workers, logger).EvaluateTrace(tr)
	logger.WithFields(logrus.Fields{
		"samples": tr.Len(),
		"elapsed": time.Since(startTime),
	}).Debug("evaluated trace")

	if err := fl.LogResults(results); err != nil {
		return err
	}
	return errors.Wrap(fl.Close(), "close feature logs")
}

func loadTrace(cfg *config.Config, path string) (*trace.Trace, error) {
	if path != "" {
		return trace.Load(path)
	}
	actions := 0
	if cfg.Sweep.Actions {
		actions = cfg.RBF.NumActions
	}
	min, max := cfg.Bounds()
	return trace.GridSweep(cfg.RBF.Dim, cfg.Sweep.Steps, min, max, actions), nil
}
