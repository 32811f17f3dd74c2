package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/agiangrant/arbor"
	"github.com/agiangrant/arbor/internal/demo"
	"github.com/agiangrant/arbor/retained"
)

// Run implements the 'arbor run' command
func Run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	config := fs.String("config", "", "Options file, reloaded when it changes")
	level := fs.String("log", "", "Log level (overrides the options file)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	name := "counter"
	if fs.NArg() > 0 {
		name = fs.Arg(0)
	}
	newRoot, err := lookupDemo(name)
	if err != nil {
		return err
	}

	opts, err := runOptions(*config, name)
	if err != nil {
		return err
	}
	if *level != "" {
		opts.Log.Level = *level
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return arbor.OpenBlockingContext(ctx, newRoot, opts)
}

func lookupDemo(name string) (func() retained.Component, error) {
	newRoot, ok := demo.Demos[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo %q (available: %s)", name, strings.Join(demo.Names(), ", "))
	}
	return newRoot, nil
}

// runOptions loads path, or arbor.toml when it exists, or the defaults.
func runOptions(path, name string) (arbor.WindowOptions, error) {
	if path == "" {
		if _, err := os.Stat(arbor.DefaultConfigFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return arbor.WindowOptions{}, err
			}
			opts := arbor.DefaultOptions()
			opts.Title = "arbor: " + name
			return opts, nil
		}
		path = arbor.DefaultConfigFile
	}
	return arbor.LoadOptions(path)
}

// ListDemos implements the 'arbor demos' command
func ListDemos(out io.Writer) {
	for _, name := range demo.Names() {
		fmt.Fprintln(out, name)
	}
}
