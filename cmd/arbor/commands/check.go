package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/agiangrant/arbor"
)

// Check implements the 'arbor check' command: it loads an options file and
// prints what it resolves to.
func Check(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := arbor.DefaultConfigFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	opts, err := arbor.LoadOptions(path)
	if err != nil {
		return err
	}
	if _, err := opts.Log.Logger(io.Discard); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(out, "%s is valid\n", path)
	fmt.Fprintf(out, "  window: %q %gx%g scale=%s resizable=%t\n", opts.Title, opts.Width, opts.Height, opts.Scale, opts.Resizable)
	fmt.Fprintf(out, "  atlas:  %dx%d\n", opts.Atlas.Width, opts.Atlas.Height)
	for _, f := range opts.Fonts {
		fmt.Fprintf(out, "  font:   %s (%s)\n", f.Name, f.Path)
	}
	return nil
}
