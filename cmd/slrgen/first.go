package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "first",
		Short:   "Print FIRST and FOLLOW sets of a grammar",
		Example: `  slrgen first grammar.txt`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runFirst,
	}
	rootCmd.AddCommand(cmd)
}

func runFirst(cmd *cobra.Command, args []string) error {
	desc, err := compileGrammar(cmd, args)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# FIRST\n\n%v\n\n", formatSymbolSets(desc.First, cfg.Output.Width))
	fmt.Fprintf(w, "# FOLLOW\n\n%v\n", formatSymbolSets(desc.Follow, cfg.Output.Width))

	return nil
}
