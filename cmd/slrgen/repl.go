package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nihei9/slrgen/grammar"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Enter grammars interactively and print their parsing tables",
		Long: `repl reads production rules line by line. An empty line compiles the rules
entered so far and prints the parsing table. Quit with :quit or <ctrl>D.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
	rootCmd.AddCommand(cmd)
}

const replBanner = "Enter rules like 'E -> E + T | T'. An empty line prints the table. Quit with <ctrl>D or :quit."

func runREPL(cmd *cobra.Command, args []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      cfg.REPL.Prompt,
		HistoryFile: cfg.REPL.HistoryFile,
	})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	pterm.Info.Println(replBanner)

	sess := &replSession{
		out:   cmd.OutOrStdout(),
		width: cfg.Output.Width,
	}
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				sess.reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		quit, err := sess.feed(line)
		if err != nil {
			pterm.Error.Println(err.Error())
		}
		if quit {
			return nil
		}
	}
}

// replSession collects rule lines until an empty line comes.
type replSession struct {
	lines []string
	out   io.Writer
	width int
}

// feed takes one input line. It returns true when the line asks to quit. An error means the rules
// collected so far were rejected, and they are discarded.
func (s *replSession) feed(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case ":quit", ":q":
		return true, nil
	case ":reset":
		s.reset()
		return false, nil
	case "":
		if len(s.lines) == 0 {
			return false, nil
		}
		defer s.reset()
		return false, s.compile()
	}
	s.lines = append(s.lines, line)
	return false, nil
}

func (s *replSession) compile() error {
	desc, err := grammar.Analyze(strings.Join(s.lines, "\n"))
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%v\n", formatParseTable(desc.ParseTable, s.width))
	if len(desc.Conflicts) > 0 {
		pterm.Warning.Println(fmt.Sprintf("%v conflicts", len(desc.Conflicts)))
	}
	return nil
}

func (s *replSession) reset() {
	s.lines = nil
}
