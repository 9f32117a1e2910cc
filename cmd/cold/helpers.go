package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/extraction"
	"github.com/JaimeStill/cold/internal/llm"
)

func newExtractor(ctx context.Context) (*extraction.Extractor, error) {
	client, err := llm.New(ctx, &cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	return extraction.New(
		client,
		nil,
		logger,
		extraction.WithThemeAttempts(cfg.Analysis.ThemeAttempts),
	), nil
}

// readText reads a decision from path, or from stdin when path is "-".
func readText(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read decision: %w", err)
	}
	return string(data), nil
}

// loadState returns nil without error when path does not exist yet.
func loadState(path string) (*analysis.State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var state analysis.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", path, err)
	}
	return &state, nil
}

// saveState replaces path atomically so an interrupted run leaves the last
// complete state behind.
func saveState(path string, state *analysis.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cold-state-*")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
