package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/slrgen/driver"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	cst    *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <description file path>",
		Short:   "Parse a text stream with a parsing table",
		Example: `  echo 'id + id' | slrgen parse grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.cst = cmd.Flags().Bool("cst", false, "when this option is enabled, the parser prints a CST instead of an AST")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	desc, err := readDescription(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a description: %w", err)
	}

	gram, err := driver.NewGrammar(desc)
	if err != nil {
		return err
	}

	var src io.Reader = cmd.InOrStdin()
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	toks, err := driver.NewTokenStream(gram, src)
	if err != nil {
		return err
	}

	treeAct := driver.NewSyntaxTreeActionSet(gram, !*parseFlags.cst, *parseFlags.cst)
	p, err := driver.NewParser(toks, gram, driver.SemanticAction(treeAct))
	if err != nil {
		return err
	}

	err = p.Parse()
	if err != nil {
		return err
	}

	synErrs := p.SyntaxErrors()
	for _, synErr := range synErrs {
		writeSyntaxError(cmd.ErrOrStderr(), synErr)
	}
	if len(synErrs) > 0 {
		return fmt.Errorf("%v syntax error(s)", len(synErrs))
	}

	tree := treeAct.AST()
	if *parseFlags.cst {
		tree = treeAct.CST()
	}
	driver.PrintTree(cmd.OutOrStdout(), tree)

	return nil
}

func writeSyntaxError(w io.Writer, synErr *driver.SyntaxError) {
	tok := synErr.Token

	var msg string
	switch {
	case tok.EOF:
		msg = "<eof>"
	case tok.Invalid:
		msg = fmt.Sprintf("'%v' (<invalid>)", tok.Text)
	default:
		msg = fmt.Sprintf("'%v'", tok.Text)
	}

	fmt.Fprintf(w, "%v:%v: %v: %v", synErr.Row+1, synErr.Col+1, synErr.Message, msg)
	if len(synErr.ExpectedTerminals) > 0 {
		fmt.Fprintf(w, "; expected: %v", synErr.ExpectedTerminals[0])
		for _, t := range synErr.ExpectedTerminals[1:] {
			fmt.Fprintf(w, ", %v", t)
		}
	}
	fmt.Fprintf(w, "\n")
}
