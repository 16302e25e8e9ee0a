package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	verr "github.com/nihei9/slrgen/error"
	"github.com/nihei9/slrgen/grammar"
	spec "github.com/nihei9/slrgen/spec/grammar"
)

var compileFlags = struct {
	output *string
	format *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into an automaton and a parsing table",
		Example: `  slrgen compile grammar.txt -o grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.format = cmd.Flags().StringP("format", "f", "", "output format [json|yaml] (default is the config's or json)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	desc, err := compileGrammar(cmd, args)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if *compileFlags.format != "" {
		format = *compileFlags.format
	}

	w := cmd.OutOrStdout()
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot open the output file %s: %w", *compileFlags.output, err)
		}
		defer f.Close()
		w = f
	}

	err = writeDescription(w, desc, format)
	if err != nil {
		return fmt.Errorf("Cannot write an output file: %w", err)
	}

	if len(desc.Conflicts) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v conflicts\n", len(desc.Conflicts))
	}

	return nil
}

// compileGrammar reads a grammar from a file passed as the first argument, or from stdin when no argument
// is passed.
func compileGrammar(cmd *cobra.Command, args []string) (desc *spec.Description, retErr error) {
	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	defer func() {
		if retErr == nil {
			return
		}
		var specErrs verr.SpecErrors
		if !errors.As(retErr, &specErrs) {
			return
		}
		for _, err := range specErrs {
			err.FilePath = grmPath
			if grmPath != "" {
				err.SourceName = grmPath
			} else {
				err.SourceName = "stdin"
			}
		}
	}()

	var src io.Reader
	if grmPath != "" {
		f, err := os.Open(grmPath)
		if err != nil {
			return nil, fmt.Errorf("Cannot open the grammar file %s: %w", grmPath, err)
		}
		defer f.Close()
		src = f
	} else {
		src = cmd.InOrStdin()
	}

	gram, err := grammar.Parse(src)
	if err != nil {
		return nil, err
	}

	desc, err = grammar.Compile(gram)
	if err != nil {
		return nil, err
	}
	tracer().Infof("compiled: %v states, %v conflicts", len(desc.Automaton.States), len(desc.Conflicts))

	return desc, nil
}

func writeDescription(w io.Writer, desc *spec.Description, format string) error {
	var b []byte
	var err error
	switch format {
	case formatJSON:
		b, err = json.Marshal(desc)
	case formatYAML:
		b, err = yaml.Marshal(desc)
	default:
		return fmt.Errorf("unknown output format: %v", format)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}
