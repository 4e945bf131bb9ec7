package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"seowriter/internal/config"
	"seowriter/internal/logger"
	"seowriter/internal/seo"
)

// app holds state shared by every subcommand once the root has loaded configuration.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "seowriter",
		Short: "Generate and post-process SEO articles",
		Long: `seowriter writes SEO-oriented blog and review articles with a language model and
post-processes them: spell correction, image placeholders, affiliate links, meta tags,
structured data and reading time.

Example usage:
  seowriter generate --topic "Melhores fones bluetooth" --keywords "fone, bluetooth"
  seowriter generate --type review --topic "Echo Dot" --product-url https://amzn.to/x \
      --affiliate "Amazon=https://amzn.to/x" --images
  seowriter optimize draft.html --topic "Echo Dot" --keywords "alexa"
  seowriter report article.html --keywords "alexa"
  seowriter validate article.html --keywords "alexa"
  seowriter verify article.html`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML); defaults are used when empty")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newGenerateCmd(a),
		newOptimizeCmd(a),
		newReportCmd(a),
		newScrapeCmd(a),
		newSpellcheckCmd(a),
		newValidateCmd(a),
		newVerifyCmd(a),
	)

	return root
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}

	a.cfg = cfg
	a.log = logger.New(stderr, level, cfg.Logging.Format)
	a.log.Debug("configuration loaded", "config", cfg.String())

	return nil
}

func (a *app) seoOptions() seo.Options {
	opts := seo.DefaultOptions()
	opts.SiteName = a.cfg.SEO.SiteName
	opts.CanonicalURL = a.cfg.SEO.CanonicalURL
	opts.LogoURL = a.cfg.SEO.LogoURL
	opts.Author = a.cfg.SEO.Author
	opts.WordsPerMinute = a.cfg.SEO.WordsPerMinute
	opts.GuardRepeats = a.cfg.SEO.GuardRepeats

	return opts
}

// readInput returns the contents of the file named by args[0], or stdin when args is
// empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}

	return string(data), nil
}

// writeOutput writes content to path, or to the command output when path is empty or "-".
func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)

		return err
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// splitKeywordsFlag accepts both repeated flags and comma-separated values.
func splitKeywordsFlag(values []string) string {
	return strings.Join(values, ",")
}
