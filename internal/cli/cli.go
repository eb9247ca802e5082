package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Analyze *AnalyzeCommand
	History *HistoryCommand
	Show    *ShowCommand
	Status  *StatusCommand
	Prune   *PruneCommand
	Purge   *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "lcpbreakdown"
	parser.LongDescription = "Break Largest Contentful Paint down into TTFB, load delay, load time and render delay."

	cmds := &commands{
		Analyze: &AnalyzeCommand{globals: &globals, version: version},
		History: &HistoryCommand{globals: &globals, version: version},
		Show:    &ShowCommand{globals: &globals, version: version},
		Status:  &StatusCommand{globals: &globals, version: version},
		Prune:   &PruneCommand{globals: &globals, version: version},
		Purge:   &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("analyze", "Compute the LCP phase breakdown of a bundle", "Compute the LCP element and its phase breakdown from a trace bundle.", cmds.Analyze)
	parser.AddCommand("history", "List recorded runs", "List recorded runs, newest first, with optional filters.", cmds.History)
	parser.AddCommand("show", "Print a recorded run", "Print the element and phase breakdown of a recorded run.", cmds.Show)
	parser.AddCommand("status", "Show history statistics", "Show run history statistics and configuration summary.", cmds.Status)
	parser.AddCommand("prune", "Apply retention pruning", "Remove runs older than the retention period.", cmds.Prune)
	parser.AddCommand("purge", "Delete ALL recorded runs", "Delete ALL recorded runs. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("lcpbreakdown %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
