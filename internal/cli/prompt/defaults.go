package prompt

import (
	"context"
	"fmt"
)

type defaultsDriver struct{}

// Defaults returns a driver that answers every question with its default
// without touching the terminal. Input defaults still go through the
// validator.
func Defaults() Driver {
	return defaultsDriver{}
}

func (defaultsDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(cfg.Default); err != nil {
			return "", fmt.Errorf("prompt: %s: %w", cfg.Message, err)
		}
	}
	return cfg.Default, nil
}

func (defaultsDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return cfg.Default, nil
}

func (defaultsDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if cfg.DefaultIndex < 0 || cfg.DefaultIndex >= len(cfg.Options) {
		return 0, fmt.Errorf("prompt: %s: no default option", cfg.Message)
	}
	return cfg.DefaultIndex, nil
}
