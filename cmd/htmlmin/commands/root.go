// Package commands implements the CLI commands for htmlmin.
package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlmin/internal/logger"
)

const envPrefix = "HTMLMIN"

// NewRootCommand builds the command tree around its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "htmlmin",
		Short: "Minify HTML by stripping redundant markup",
		Long: `htmlmin shrinks HTML documents without changing what they mean.

It removes attributes that restate the browser default (method="get",
type="text/javascript", loading="eager", ...), collapses boolean and
empty-default attributes, drops comments and collapses whitespace.

Configuration is read from $HOME/.htmlmin.yaml or ./.htmlmin.yaml, from
HTMLMIN_* environment variables and from flags, in increasing priority.

Examples:
  # Minify a file to stdout
  htmlmin minify index.html

  # Minify a fetched page with the aggressive preset
  htmlmin minify https://example.com -p aggressive -o page.min.html

  # Show which attribute defaults are stripped
  htmlmin rules`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(v); err != nil {
				return err
			}
			logger.Init(logger.Options{
				Debug:  v.GetBool("debug"),
				Quiet:  v.GetBool("quiet"),
				JSON:   v.GetBool("log_json"),
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default $HOME/.htmlmin.yaml)")
	pf.Bool("debug", false, "enable debug logging")
	pf.BoolP("quiet", "q", false, "only log errors")
	pf.Bool("log-json", false, "log as JSON")

	_ = v.BindPFlag("config", pf.Lookup("config"))
	_ = v.BindPFlag("debug", pf.Lookup("debug"))
	_ = v.BindPFlag("quiet", pf.Lookup("quiet"))
	_ = v.BindPFlag("log_json", pf.Lookup("log-json"))

	cmd.AddCommand(
		newMinifyCommand(v),
		newRulesCommand(),
		newVersionCommand(),
	)
	return cmd
}

func initConfig(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(".htmlmin")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
