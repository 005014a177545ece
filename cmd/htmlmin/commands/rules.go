package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/htmlmin/internal/output"
	"github.com/jmylchreest/htmlmin/pkg/minifier/redundant"
)

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the redundant attribute rules",
		Long: `Rules lists every attribute default htmlmin strips. Removal rules
delete the attribute, normalize rules rewrite its value to the empty
string. Removal always runs first.

With --mime, the MIME types that make a script type attribute redundant
are listed instead.`,
		Args: cobra.NoArgs,
		RunE: runRules,
	}

	cmd.Flags().StringP("format", "f", "text", "output format: text, json, jsonl, yaml")
	cmd.Flags().Bool("mime", false, "list redundant JavaScript MIME types")

	return cmd
}

func runRules(cmd *cobra.Command, _ []string) error {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	mime, _ := cmd.Flags().GetBool("mime")

	w := cmd.OutOrStdout()
	if format == output.FormatText {
		if mime {
			for _, t := range redundant.RedundantScriptTypes() {
				fmt.Fprintln(w, t)
			}
			return nil
		}
		return writeRuleTable(w, redundant.Rules())
	}

	ow, err := output.NewWriter(w, format)
	if err != nil {
		return err
	}
	if mime {
		err = ow.Write(redundant.RedundantScriptTypes())
	} else {
		items := make([]any, 0)
		for _, r := range redundant.Rules() {
			items = append(items, r)
		}
		err = ow.WriteAll(items)
	}
	if err != nil {
		return err
	}
	return ow.Close()
}

func writeRuleTable(w io.Writer, rules []redundant.RuleInfo) error {
	if _, err := fmt.Fprintf(w, "%-10s %-10s %-12s %s\n", "ACTION", "TAG", "ATTRIBUTE", "CONDITION"); err != nil {
		return err
	}
	for _, r := range rules {
		if _, err := fmt.Fprintf(w, "%-10s %-10s %-12s %s\n", r.Action, r.Tag, r.Attribute, r.Condition); err != nil {
			return err
		}
	}
	return nil
}
