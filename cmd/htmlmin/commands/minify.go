package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlmin/internal/config"
	"github.com/jmylchreest/htmlmin/internal/fetch"
	"github.com/jmylchreest/htmlmin/internal/logger"
	"github.com/jmylchreest/htmlmin/internal/output"
	"github.com/jmylchreest/htmlmin/pkg/minifier/htmlmin"
)

// ErrInputTooLarge is returned when the input exceeds --max-input-size.
var ErrInputTooLarge = errors.New("input exceeds size limit")

// statsReport is the machine-readable form of --stats.
type statsReport struct {
	Source           string            `json:"source" yaml:"source"`
	ReductionPercent float64           `json:"reduction_percent" yaml:"reduction_percent"`
	Stats            *htmlmin.Stats    `json:"stats" yaml:"stats"`
	Warnings         []htmlmin.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func newMinifyCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minify [file | url | -]",
		Short: "Minify an HTML document",
		Long: `Minify reads HTML from a file, an http(s) URL or stdin ("-" or no
argument) and writes the minified document to stdout or --output.

Examples:
  htmlmin minify page.html
  cat page.html | htmlmin minify --fragment
  htmlmin minify https://example.com --stats --stats-format json
  htmlmin minify page.html --remove "nav,.ads" -p aggressive
  htmlmin minify page.html --compare`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMinify(cmd, v, args)
		},
	}

	flags := cmd.Flags()

	// Minifier settings
	flags.StringP("preset", "p", "", "preset: default, minimal, aggressive")
	flags.Bool("fragment", false, "output only the contents of <body>")
	flags.StringSlice("remove", nil, "CSS selectors of elements to remove (comma separated or repeated)")
	flags.Bool("no-redundant-attributes", false, "keep attributes that restate the browser default")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.Bool("stats", false, "print minification stats to stderr")
	flags.String("stats-format", "text", "stats format: text, json, jsonl, yaml")
	flags.Bool("compare", false, "compare all presets instead of writing output")

	// Input settings
	flags.Duration("timeout", 30*time.Second, "request timeout for URL input")
	flags.String("user-agent", "", "user agent for URL input")
	flags.String("max-input-size", "10MB", "max input size (e.g. 500KB, 10MB, 0=unlimited)")

	_ = v.BindPFlag(config.KeyPreset, flags.Lookup("preset"))

	return cmd
}

func runMinify(cmd *cobra.Command, v *viper.Viper, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	flags := cmd.Flags()

	maxSizeStr, _ := flags.GetString("max-input-size")
	maxSize, err := parseSize(maxSizeStr)
	if err != nil {
		return fmt.Errorf("invalid max-input-size %q: %w", maxSizeStr, err)
	}

	statsFormatStr, _ := flags.GetString("stats-format")
	statsFormat, err := output.ParseFormat(statsFormatStr)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, v)
	if err != nil {
		return err
	}

	source := "-"
	if len(args) > 0 {
		source = args[0]
	}

	timeout, _ := flags.GetDuration("timeout")
	userAgent, _ := flags.GetString("user-agent")
	input, err := readInput(ctx, cmd.InOrStdin(), source, fetch.Options{
		UserAgent: userAgent,
		Timeout:   timeout,
	}, maxSize)
	if err != nil {
		return err
	}
	if len(input) == 0 {
		return errors.New("empty input")
	}
	logger.Debug("input loaded", "source", sourceName(source), "bytes", len(input))

	if compare, _ := flags.GetBool("compare"); compare {
		return runComparison(cmd.OutOrStdout(), input, sourceName(source), cfg.Fragment)
	}

	result := htmlmin.New(cfg).MinifyWithStats(input)
	for _, w := range result.Warnings {
		logger.Warn("minify warning", "warning", w.String())
	}

	outPath, _ := flags.GetString("output")
	if err := writeContent(cmd.OutOrStdout(), outPath, result.Content); err != nil {
		return err
	}

	if showStats, _ := flags.GetBool("stats"); showStats {
		return writeStats(cmd.ErrOrStderr(), statsFormat, sourceName(source), result)
	}
	return nil
}

// buildConfig layers flags over the preset and config file settings.
func buildConfig(cmd *cobra.Command, v *viper.Viper) (*htmlmin.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("fragment") {
		cfg.Fragment, _ = flags.GetBool("fragment")
	}
	if keep, _ := flags.GetBool("no-redundant-attributes"); keep {
		cfg.RemoveRedundantAttributes = false
	}
	if v.GetBool("debug") {
		cfg.Debug = true
	}

	if remove, _ := flags.GetStringSlice("remove"); len(remove) > 0 {
		selectors := make([]string, 0, len(remove))
		for _, s := range remove {
			if s = strings.TrimSpace(s); s != "" {
				selectors = append(selectors, s)
			}
		}
		cfg = cfg.Merge(&htmlmin.Config{RemoveSelectors: selectors})
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func sourceName(source string) string {
	if source == "-" {
		return "stdin"
	}
	return source
}

// readInput loads the document from stdin, a URL or a file. limit is in
// bytes, 0 means unlimited.
func readInput(ctx context.Context, stdin io.Reader, source string, opts fetch.Options, limit int64) (string, error) {
	switch {
	case source == "-":
		return readLimited(stdin, limit)
	case fetch.IsURL(source):
		if limit > 0 {
			opts.MaxBodySize = int(limit) + 1
		}
		page, err := fetch.Fetch(ctx, source, opts)
		if err != nil {
			return "", err
		}
		if limit > 0 && int64(len(page.HTML)) > limit {
			return "", fmt.Errorf("%w: %s is larger than %s", ErrInputTooLarge, source, humanize.Bytes(uint64(limit)))
		}
		return page.HTML, nil
	default:
		f, err := os.Open(source)
		if err != nil {
			return "", fmt.Errorf("reading file %s: %w", source, err)
		}
		defer func() { _ = f.Close() }()
		return readLimited(f, limit)
	}
}

func readLimited(r io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		return string(data), err
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: larger than %s", ErrInputTooLarge, humanize.Bytes(uint64(limit)))
	}
	return string(data), nil
}

func writeContent(stdout io.Writer, path, content string) error {
	if path == "" {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	logger.Info("wrote output", "path", path, "size", humanize.Bytes(uint64(len(content))))
	return nil
}

func writeStats(w io.Writer, format output.Format, source string, result *htmlmin.Result) error {
	if format == output.FormatText {
		_, err := fmt.Fprintf(w, "=== htmlmin stats ===\nSource: %s\n%s", source, result.Stats.String())
		return err
	}

	ow, err := output.NewWriter(w, format)
	if err != nil {
		return err
	}
	if err := ow.Write(statsReport{
		Source:           source,
		ReductionPercent: result.Stats.ReductionPercent(),
		Stats:            result.Stats,
		Warnings:         result.Warnings,
	}); err != nil {
		return err
	}
	return ow.Close()
}

func runComparison(w io.Writer, input, source string, fragment bool) error {
	fmt.Fprintf(w, "=== Preset comparison for %s ===\n", source)
	fmt.Fprintf(w, "Input size: %s\n\n", humanize.Bytes(uint64(len(input))))
	fmt.Fprintf(w, "%-12s %10s %10s %8s %10s\n", "Preset", "Output", "Attrs", "Reduce%", "Time")
	fmt.Fprintf(w, "%-12s %10s %10s %8s %10s\n", "------", "------", "-----", "-------", "----")

	for _, name := range htmlmin.PresetNames() {
		cfg, err := htmlmin.PresetByName(name)
		if err != nil {
			return err
		}
		cfg.Fragment = fragment

		result := htmlmin.New(cfg).MinifyWithStats(input)
		fmt.Fprintf(w, "%-12s %10s %10d %7.1f%% %10v\n",
			name,
			humanize.Bytes(uint64(result.Stats.OutputBytes)),
			result.Stats.TotalAttributeChanges(),
			result.Stats.ReductionPercent(),
			result.Stats.TotalDuration.Round(time.Microsecond))
	}
	return nil
}
