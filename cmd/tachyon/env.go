package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-tachyon/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // Preloaded config; nil loads --config or TACHYON_CONFIG and applies TACHYON_* overrides
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
