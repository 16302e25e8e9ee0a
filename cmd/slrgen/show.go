package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/dekarrin/rosed"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	spec "github.com/nihei9/slrgen/spec/grammar"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a description in a readable format",
		Example: `  slrgen show grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	desc, err := readDescription(args[0])
	if err != nil {
		return err
	}

	err = writeReport(cmd.OutOrStdout(), desc, cfg.Output.Width)
	if err != nil {
		return err
	}

	return nil
}

// readDescription reads a description written by the compile command. A file with the .yaml or .yml
// extension is decoded as YAML, and the others as JSON.
func readDescription(path string) (*spec.Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the description %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	desc := &spec.Description{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(d, desc)
	default:
		err = json.Unmarshal(d, desc)
	}
	if err != nil {
		return nil, fmt.Errorf("Cannot decode the description %s: %w", path, err)
	}
	if desc.Automaton == nil || desc.ParseTable == nil {
		return nil, fmt.Errorf("the description %s lacks an automaton or a parsing table", path)
	}

	return desc, nil
}

const reportTemplate = `# Rules

{{ range .Rules -}}
{{ printRule . }}
{{ end }}
# Terminals

{{ range .Terminals -}}
{{ . }}
{{ end }}
# Non-terminals

{{ range .NonTerminals -}}
{{ . }}
{{ end }}
# FIRST

{{ printSets .First }}
# FOLLOW

{{ printSets .Follow }}
# States
{{ range .Automaton.States }}
## State {{ .Number }}

{{ range .Items -}}
{{ printItem . }}
{{ end }}
{{ range .Transitions -}}
{{ printTransition . }}
{{ end -}}
{{ end }}
# Parsing Table

{{ printTable .ParseTable }}

# Conflicts

{{ printConflictSummary . }}
{{ range .Conflicts -}}
{{ printConflict . }}
{{ end -}}
`

func writeReport(w io.Writer, desc *spec.Description, width int) error {
	fns := template.FuncMap{
		"printRule": func(rule *spec.Rule) string {
			return fmt.Sprintf("%4v %v", rule.Number, rule)
		},
		"printItem": func(item *spec.Item) string {
			return item.String()
		},
		"printTransition": func(trans *spec.Transition) string {
			return fmt.Sprintf("%v → %v", trans.Symbol, trans.State)
		},
		"printSets": func(sets []*spec.SymbolSet) string {
			return formatSymbolSets(sets, width)
		},
		"printTable": func(tab *spec.ParseTable) string {
			return formatParseTable(tab, width)
		},
		"printConflictSummary": func(desc *spec.Description) string {
			if len(desc.Conflicts) == 0 {
				return "no conflicts"
			}
			return fmt.Sprintf("%v conflicts", len(desc.Conflicts))
		},
		"printConflict": func(c *spec.Conflict) string {
			return fmt.Sprintf("%v conflict on %v in state %v: adopted %v, dropped %v", c.Kind, c.Symbol, c.State, c.Adopted, c.Dropped)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, desc)
}

func formatSymbolSets(sets []*spec.SymbolSet, width int) string {
	data := [][]string{{"Symbol", "Set"}}
	for _, s := range sets {
		syms := append([]string{}, s.Symbols...)
		if s.Empty {
			syms = append(syms, "ε")
		}
		data = append(data, []string{s.Symbol, "{ " + strings.Join(syms, ", ") + " }"})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// formatParseTable lays a parsing table out as a bordered text table. An empty cell is an error.
func formatParseTable(tab *spec.ParseTable, width int) string {
	header := []string{"State"}
	header = append(header, tab.Columns...)
	data := [][]string{header}
	for i, row := range tab.Rows {
		dataRow := []string{strconv.Itoa(i)}
		dataRow = append(dataRow, row...)
		data = append(data, dataRow)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableHeaders: true,
			TableBorders: true,
		}).
		String()
}
