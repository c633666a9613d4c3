package main

import (
	"bytes"
	"testing"
)

// executeCommand runs the root command with args and returns what it wrote
// to stdout and stderr. Global flags are reset first because cobra keeps
// their values between runs.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgFile = ""
	verbose = false
	jsonOutput = false
	basePath = ""
	systemName = ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs([]string{})
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := Execute()
	return stdout.String(), stderr.String(), err
}
