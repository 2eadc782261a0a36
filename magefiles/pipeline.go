//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// runBinary executes the built CLI with the given subcommand.
func runBinary(sub string, args ...string) error {
	bin := filepath.Join(binDir, binName)
	cmd := exec.Command(bin, append([]string{sub}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", binName, sub, err)
	}
	return nil
}

// Run executes the full pipeline over the default snapshot and persists
// the results.
func Run() error {
	mg.Deps(Build)
	return runBinary("run")
}

// Forecast prints the skill demand table for the default snapshot.
func Forecast() error {
	mg.Deps(Build)
	return runBinary("forecast")
}

// Coverage prints the curriculum coverage report for the default snapshot.
func Coverage() error {
	mg.Deps(Build)
	return runBinary("coverage")
}
