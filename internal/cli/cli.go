// Package cli implements the nkap command line: one-shot conversion, the
// rate listing and the interactive prompt loop.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/damon-houk/nkap/internal/domain/entity"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// PrintCurrencyList is the print request listing every currency and its rate
const PrintCurrencyList = "currency-list"

// ErrUnknownPrintRequest is returned for a --print value other than PrintCurrencyList
var ErrUnknownPrintRequest = errors.New("unknown print request")

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Converter is the part of the conversion service the command line needs
type Converter interface {
	Convert(ctx context.Context, from, to string, amount float64) (*entity.Conversion, error)
	ListRates(ctx context.Context) ([]entity.Rate, error)
}

// App runs the command line against a Converter
type App struct {
	converter Converter
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer

	title *color.Color
	ok    *color.Color
	fail  *color.Color
}

// New creates the command line app. Colors are enabled only for writers
// that are terminals.
func New(converter Converter, stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{
		converter: converter,
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		title:     newColor(stdout, color.FgCyan, color.Bold),
		ok:        newColor(stdout, color.FgGreen),
		fail:      newColor(stderr, color.FgRed),
	}
}

func newColor(w io.Writer, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if isTerminal(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run parses args and performs the requested action. It returns the process
// exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	var (
		source      string
		target      string
		amount      float64
		request     string
		interactive bool
	)

	fs := flag.NewFlagSet("nkap", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&source, "s", "", "shorthand for --source")
	fs.StringVar(&source, "source", "", "Source currency code")
	fs.StringVar(&target, "t", "", "shorthand for --target")
	fs.StringVar(&target, "target", "", "Target currency code")
	fs.Float64Var(&amount, "a", 0, "shorthand for --amount")
	fs.Float64Var(&amount, "amount", 0, "Amount to be converted")
	fs.StringVar(&request, "print", "", "API information to print on stdout ("+PrintCurrencyList+")")
	fs.BoolVar(&interactive, "i", false, "shorthand for --interactive")
	fs.BoolVar(&interactive, "interactive", false, "Starts the interactive mode")
	fs.Usage = func() { a.usage(fs) }

	if len(args) == 0 {
		fs.Usage()
		return ExitUsage
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	if fs.NArg() > 0 {
		a.fail.Fprintf(a.stderr, "unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return ExitUsage
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	hasSource := set["s"] || set["source"]
	hasTarget := set["t"] || set["target"]
	hasAmount := set["a"] || set["amount"]

	if (hasSource || hasTarget || hasAmount) && !(hasSource && hasTarget && hasAmount) {
		a.fail.Fprintln(a.stderr, "the --source, --target and --amount flags must be used together")
		fs.Usage()
		return ExitUsage
	}

	switch {
	case interactive:
		a.Interactive(ctx)
	case set["print"]:
		if err := a.PrintRequest(ctx, request); err != nil {
			a.fail.Fprintf(a.stderr, "Problem during print request: %v\n", err)
			return ExitError
		}
	case hasAmount:
		conv, err := a.converter.Convert(ctx, source, target, amount)
		if err != nil {
			a.fail.Fprintf(a.stderr, "Problem of conversion: %v\n", err)
			return ExitError
		}
		a.printConversion(conv)
	}

	return ExitOK
}

// PrintRequest writes the requested API information to stdout
func (a *App) PrintRequest(ctx context.Context, request string) error {
	if request != PrintCurrencyList {
		return fmt.Errorf("%w `%s`", ErrUnknownPrintRequest, request)
	}

	rates, err := a.converter.ListRates(ctx)
	if err != nil {
		return err
	}

	for _, rate := range rates {
		fmt.Fprintf(a.stdout, "%s -> %s\n", rate.Code, formatFloat(rate.Rate))
	}
	return nil
}

func (a *App) printConversion(conv *entity.Conversion) {
	a.ok.Fprintf(a.stdout, "With a current exchange rate of %s, the target amount is %s.\n",
		formatFloat(conv.Rate), formatFloat(conv.ConvertedAmount))
}

func (a *App) usage(fs *flag.FlagSet) {
	fmt.Fprintln(fs.Output(), "Nkap CLI.")
	fmt.Fprintln(fs.Output())
	fmt.Fprintln(fs.Output(), "Usage:")
	fmt.Fprintln(fs.Output(), "  nkap -s <source> -t <target> -a <amount>")
	fmt.Fprintln(fs.Output(), "  nkap --print "+PrintCurrencyList)
	fmt.Fprintln(fs.Output(), "  nkap -i")
	fmt.Fprintln(fs.Output())
	fmt.Fprintln(fs.Output(), "Options:")
	fs.PrintDefaults()
}

// formatFloat prints the shortest exact representation without an exponent
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
