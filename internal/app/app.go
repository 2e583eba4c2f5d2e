package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/projgen/internal/ctxlog"
	"github.com/vk/projgen/internal/hclcfg"
	"github.com/vk/projgen/internal/project"
)

// App encapsulates the generator's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader *hclcfg.Loader
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and loader.
func NewApp(outW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		loader: hclcfg.NewLoader(),
	}
}

// Run performs one full generation pass: load the definition, assemble
// the project, synthesize artifacts, write them. A failure at any stage
// leaves the output directory untouched.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "project_path", a.config.ProjectPath)

	opts, err := a.loader.Load(ctx, a.config.ProjectPath)
	if err != nil {
		return err
	}

	proj, err := project.New(ctx, opts)
	if err != nil {
		return err
	}

	set, err := proj.Synthesize(ctx)
	if err != nil {
		return err
	}

	if a.config.DryRun {
		for _, art := range set.All() {
			a.logger.Info("would write artifact.", "path", art.Path, "bytes", len(art.Content))
		}
		return nil
	}

	outDir := a.config.OutDir
	if outDir == "" {
		outDir = a.config.ProjectPath
		if info, statErr := os.Stat(outDir); statErr == nil && !info.IsDir() {
			outDir = filepath.Dir(outDir)
		}
	}
	if err := set.WriteAll(outDir); err != nil {
		return err
	}
	a.logger.Info("generation finished.", "artifacts", set.Len(), "out_dir", outDir)
	return nil
}
