package main

import (
	"context"
	"fmt"
	"os"

	"github.com/avelasko/todoapp/internal/app"
	"github.com/avelasko/todoapp/internal/config"
	pkgconfig "github.com/avelasko/todoapp/pkg/config"
	"github.com/avelasko/todoapp/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todoapp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if err := pkgconfig.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	l := logger.New("todoapp", cfg.LogLevel)

	ctx := context.Background()
	a, err := app.New(ctx, &cfg, l)
	if err != nil {
		return err
	}

	return a.Run(ctx)
}
