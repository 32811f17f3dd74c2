package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agiangrant/arbor"
)

// Init implements the 'arbor init' command
func Init(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	dir := fs.String("dir", ".", "Directory to write arbor.toml in")
	title := fs.String("title", "", "Window title (default: directory name)")
	width := fs.Float64("width", 800, "Window width in logical pixels")
	height := fs.Float64("height", 600, "Window height in logical pixels")
	force := fs.Bool("force", false, "Overwrite an existing arbor.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := filepath.Join(*dir, arbor.DefaultConfigFile)
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}

	opts := arbor.DefaultOptions()
	opts.Title = *title
	if opts.Title == "" {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return err
		}
		opts.Title = filepath.Base(abs)
	}
	opts.Width, opts.Height = float32(*width), float32(*height)

	if err := arbor.SaveOptions(path, opts); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created %s\n", path)
	fmt.Fprintln(out, "Open it with:")
	fmt.Fprintf(out, "  arbor run -config %s\n", path)
	return nil
}
