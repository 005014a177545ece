package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/htmlmin/internal/output"
	"github.com/jmylchreest/htmlmin/internal/version"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if short, _ := cmd.Flags().GetBool("short"); short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return err
			}

			formatStr, _ := cmd.Flags().GetString("format")
			format, err := output.ParseFormat(formatStr)
			if err != nil {
				return err
			}
			if format == output.FormatText {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
				return err
			}

			ow, err := output.NewWriter(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			if err := ow.Write(version.Get()); err != nil {
				return err
			}
			return ow.Close()
		},
	}

	cmd.Flags().Bool("short", false, "print only the version number")
	cmd.Flags().StringP("format", "f", "text", "output format: text, json, yaml")

	return cmd
}
