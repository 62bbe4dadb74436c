// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/pricecrawl/internal/app"
	"github.com/law-makers/pricecrawl/internal/config"
	"github.com/law-makers/pricecrawl/internal/ui"
)

const longDescription = `Pricecrawl visits every site listed in the sites file, discovers product
listing pages, extracts product name, price, currency and availability, and
writes them to a pipe-delimited text report.

Pages are fetched with a plain HTTP request and, when the document looks
incomplete, rendered in a headless browser.`

const examples = `# Scrape the sites in sites.txt with the defaults
pricecrawl

# Only plain HTTP requests, ten products per site
pricecrawl --static-only --first-n 10

# Always render in a browser, using Playwright
pricecrawl --dynamic always --renderer playwright

# Custom header and proxy rotation
pricecrawl -H "Cookie: country=eg" --proxy http://p1:8080,http://p2:8080`

// NewRootCmd builds the pricecrawl command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pricecrawl",
		Short:         "Scrape product prices and availability from shop websites",
		Long:          longDescription,
		Example:       examples,
		Version:       "0.1.0",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	config.RegisterFlags(cmd)
	cmd.Flags().BoolP("help", "h", false, "Help for pricecrawl")
	cmd.Flags().Bool("version", false, "Version for pricecrawl")

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetHelpFunc(customHelpFunc)
	return cmd
}

// Execute runs the root command with ctx, which is cancelled on interrupt
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := app.NewLogger(app.LogOptions{
		Dir:   cfg.LogDir,
		File:  config.DefaultLogFile,
		Level: cfg.LogLevel(),
		JSON:  cfg.JSONLog,
		Quiet: cfg.Quiet,
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	sites, err := config.LoadSites(cfg.SitesFile)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.SitesFile).Msg("Cannot read sites file")
		return err
	}
	logger.Debug().Int("sites", len(sites)).Str("path", cfg.SitesFile).Msg("Sites loaded")

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Stdout = cmd.OutOrStdout()
	a.Progress = cmd.ErrOrStderr()

	return a.Run(cmd.Context(), sites)
}

// customHelpFunc provides a colorized help output
func customHelpFunc(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorCyan, strings.ToUpper(cmd.Name()), ui.ColorReset)
	if cmd.Short != "" {
		fmt.Fprintf(w, "%s\n", cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", wrapText(cmd.Long, 80))
	}

	fmt.Fprintf(w, "\n%sUsage%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
	fmt.Fprintf(w, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)

	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%sExamples%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		lastWasCommand := false
		for _, example := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(example)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "#") {
				if lastWasCommand {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "  %s%s%s\n", ui.ColorDim, trimmed, ui.ColorReset)
				lastWasCommand = false
			} else {
				fmt.Fprintf(w, "  %s$ %s%s\n", ui.ColorGreen, trimmed, ui.ColorReset)
				lastWasCommand = true
			}
		}
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%sFlags%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		printFlagsTo(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(w, "\n%sGlobal Flags%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		printFlagsTo(w, cmd.InheritedFlags().FlagUsages())
	}
	fmt.Fprintln(w)
}

// printFlagsTo prints flag usages with color formatting to w
func printFlagsTo(w io.Writer, flagUsages string) {
	lines := strings.Split(flagUsages, "\n")

	// Find maximum flag length for alignment
	maxFlagLen := 28
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			flagPart := strings.TrimSpace(strings.SplitN(trimmed, "  ", 2)[0])
			if len(flagPart) > maxFlagLen {
				maxFlagLen = len(flagPart)
			}
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")

		if !strings.HasPrefix(trimmed, "-") {
			// Continuation of the previous description
			fmt.Fprintf(w, "%s%s%s%s\n", strings.Repeat(" ", maxFlagLen+4), ui.ColorDim, trimmed, ui.ColorReset)
			continue
		}

		parts := strings.SplitN(trimmed, "  ", 2)
		if len(parts) != 2 {
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorGreen, trimmed, ui.ColorReset)
			continue
		}
		flagPart := strings.TrimSpace(parts[0])
		padding := strings.Repeat(" ", maxFlagLen-len(flagPart)+2)
		fmt.Fprintf(w, "  %s%s%s%s%s%s%s\n",
			ui.ColorGreen, flagPart, ui.ColorReset,
			padding,
			ui.ColorDim, strings.TrimSpace(parts[1]), ui.ColorReset)
	}
}

// wrapText wraps text at the specified width while preserving paragraphs
func wrapText(text string, width int) string {
	var wrappedParagraphs []string

	for _, para := range strings.Split(text, "\n\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}

		var lines []string
		var current strings.Builder
		for _, word := range words {
			switch {
			case current.Len() == 0:
				current.WriteString(word)
			case current.Len()+1+len(word) <= width:
				current.WriteString(" ")
				current.WriteString(word)
			default:
				lines = append(lines, current.String())
				current.Reset()
				current.WriteString(word)
			}
		}
		lines = append(lines, current.String())
		wrappedParagraphs = append(wrappedParagraphs, strings.Join(lines, "\n"))
	}

	return strings.Join(wrappedParagraphs, "\n\n")
}

// Main runs the command, reports a failure on stderr and returns the process
// exit status
func Main(ctx context.Context) int {
	err := Execute(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, ui.Error("Aborted by user."))
		return 130
	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("Error:"), err)
		return 1
	}
}
