package main

import (
	"fmt"
	"os"

	"github.com/agiangrant/arbor/cmd/arbor/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = commands.Run(args)
	case "init":
		err = commands.Init(args, os.Stdout)
	case "check":
		err = commands.Check(args, os.Stdout)
	case "demos":
		commands.ListDemos(os.Stdout)
	case "version", "-v", "--version":
		fmt.Printf("arbor version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`arbor - retained UI toolkit

Usage: arbor <command> [options]

Commands:
  run [demo]      Open a demo window (default: counter)
  init            Write a default arbor.toml
  check [file]    Validate an options file
  demos           List the demos
  version         Print version information
  help            Show this help message

Examples:
  arbor run todo                  Open the todo demo
  arbor run -config arbor.toml    Open the counter with options, reloading on save
  arbor init -title Notes         Write arbor.toml for a window titled Notes

Configuration:
  Windows are configured via arbor.toml. Run 'arbor init' to create one.`)
}
