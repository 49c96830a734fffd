package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"blogapi/service"

	"github.com/joho/godotenv"
)

var exit = os.Exit

func main() {
	exit(RealMain(os.Args[1:], os.Stdout, os.Stderr))
}

// RealMain runs the CLI with args and returns the process exit code.
func RealMain(args []string, stdout, stderr io.Writer) int {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Error loading .env: %v\n", err)
		return 1
	}

	cmd := service.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
