package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// success prints a green line with a checkmark prefix.
func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, a...))
}

// warning prints a yellow line with a warning prefix.
func warning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

// heading prints a cyan section title.
func heading(w io.Writer, title string) {
	cyan.Fprintf(w, "%s\n", title)
}

// printError prints a red title and explanation to stderr and returns a
// plain error for Cobra, which is configured not to print it again.
func printError(title, explanation string, suggestions ...string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(os.Stderr, "%s\n", explanation)
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n%s\n", strings.Join(suggestions, "\n"))
	}
	return fmt.Errorf("%s", title)
}
