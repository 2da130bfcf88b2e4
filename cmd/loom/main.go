// Command loom is the Language's interactive driver, a thin flag-parsing
// shell around internal/repl: it builds a repl.Config from the
// recognized flags, starts the REPL against stdin, and maps an
// unhandled top-level error to exit code 1.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/loomlang/loom/internal/repl"
)

var (
	red  = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// foreignFlags collects repeated `--foreign=CLASS` occurrences into an
// ordered list, the way flag.Var is meant to be used for multi-valued
// flags (flag.String only keeps the last one).
type foreignFlags []string

func (f *foreignFlags) String() string {
	if f == nil {
		return ""
	}
	return fmt.Sprint([]string(*f))
}

func (f *foreignFlags) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("loom", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		banner      = fs.Bool("banner", true, "print the startup banner")
		terminal    = fs.String("terminal", "", "use \"dumb\" for a non-interactive terminal")
		echo        = fs.Bool("echo", false, "echo the parsed source before its result")
		help        = fs.Bool("help", false, "print usage")
		system      = fs.Bool("system", true, "take over stdin/stdout as a system terminal")
		directory   = fs.String("directory", "", "base directory for use and .input")
		maxUseDepth = fs.Int("maxUseDepth", -1, "cap recursive use depth (negative = unbounded)")
		foreign     foreignFlags
	)
	fs.Var(&foreign, "foreign", "load a foreign-value provider by name (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *help {
		printHelp(stdout, fs)
		return 0
	}

	if *directory == "" {
		*directory = os.Getenv("MOREL_DIRECTORY")
	}
	if !*system {
		*terminal = "dumb"
	}

	r, err := repl.New(repl.Config{
		Banner:      *banner,
		Terminal:    *terminal,
		Echo:        *echo,
		Foreign:     foreign,
		Directory:   *directory,
		MaxUseDepth: *maxUseDepth,
	})
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", red("Error:"), err)
		return 1
	}

	r.Start(stdout)
	return 0
}

func printHelp(out *os.File, fs *flag.FlagSet) {
	fmt.Fprintln(out, bold("loom")+" - a statically typed, eagerly evaluated functional language with relational query support")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  loom [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fs.PrintDefaults()
}
