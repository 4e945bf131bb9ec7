package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"seowriter/internal/config"
	"seowriter/internal/formatter"
	"seowriter/internal/llm"
	"seowriter/internal/normalizer"
	"seowriter/internal/pipeline"
	"seowriter/internal/scraper"
	"seowriter/internal/seo"
	"seowriter/internal/spellcheck"
	"seowriter/internal/validator"
	"seowriter/pkg/metadata"
)

func newOptimizeCmd(a *app) *cobra.Command {
	var (
		in          normalizer.Input
		keywords    []string
		productName string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "optimize [file]",
		Short: "Run the post-processing stages on existing article HTML",
		Long: `Optimize applies image fallback blocks, affiliate links and SEO annotations to an
article that was written elsewhere. It reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			in.Keywords = splitKeywordsFlag(keywords)

			req, err := normalizer.NewProcessor().Process(&in)
			if err != nil {
				return err
			}

			out := pipeline.PostProcess(article, req, productName, seo.New(a.seoOptions(), a.log))

			return writeOutput(cmd, output, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Topic, "topic", "", "article topic (required)")
	f.StringSliceVarP(&keywords, "keywords", "k", nil, "SEO keywords, comma-separated or repeated")
	f.StringVar(&in.GeoLocation, "geo", "", "target audience location")
	f.StringArrayVarP(&in.Affiliates, "affiliate", "a", nil, `affiliate link as "Platform=URL" (repeatable)`)
	f.StringVar(&productName, "product-name", "", "product name shown in the affiliate block (defaults to the topic)")
	f.StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")

	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func newReportCmd(_ *app) *cobra.Command {
	var (
		keywords   []string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Print word, heading, image, link and keyword statistics for an article",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			_, clean := metadata.Extract(article)
			report := seo.Report(clean, normalizer.SplitKeywords(splitKeywordsFlag(keywords)))

			if jsonOutput {
				return printJSON(cmd, report)
			}

			return writeOutput(cmd, "", formatter.Report(report))
		},
	}

	cmd.Flags().StringSliceVarP(&keywords, "keywords", "k", nil, "keywords to measure density for")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func newScrapeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape a product page and print the extracted details as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := scraper.New(a.cfg.Scraper, a.log).ScrapeDetailed(cmd.Context(), args[0])
			if err != nil {
				a.log.Warn("product scrape failed, showing fallback product", "url", args[0], "error", err)
			}

			return printJSON(cmd, product)
		},
	}
}

func newSpellcheckCmd(a *app) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "spellcheck [file]",
		Short: "Proofread text with the language model or the offline correction list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			cfg := a.cfg.LLM
			if mode != "" {
				cfg.Proofread = mode
			}

			var completer llm.Completer
			if cfg.Proofread == config.ProofreadLLM {
				if completer, err = llm.New(cmd.Context(), cfg, a.log); err != nil {
					return err
				}
			}

			out, err := spellcheck.NewChecker(completer, cfg, a.log).Proofread(cmd.Context(), text)
			if err != nil {
				return err
			}

			return writeOutput(cmd, "", out)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "proofreading mode: llm, basic or off (default from config)")

	return cmd
}

func newVerifyCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [file]",
		Short: "Check that a published article was not edited after signing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			meta, err := metadata.Verify(content)
			if err != nil {
				if errors.Is(err, metadata.ErrHashMismatch) {
					return fmt.Errorf("article was modified after signing: %w", err)
				}

				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "OK run=%s generated=%s generator=%s\n",
				meta.RunID, meta.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"), meta.Generator)

			return err
		},
	}
}

// ErrInvalidArticle is returned by the validate command when any check fails.
var ErrInvalidArticle = errors.New("article failed validation")

func newValidateCmd(_ *app) *cobra.Command {
	var (
		keywords  []string
		minWords  int
		integrity bool
	)

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a finished article for structural SEO problems",
		Long: `Validate reports articles without text or an <h1>, or with image placeholders left in
them, as invalid. Short articles, images without alt text, missing meta descriptions and
absent keywords are reported as warnings. With --integrity the provenance block is
verified too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			kws := normalizer.SplitKeywords(splitKeywordsFlag(keywords))
			result := validator.NewArticleValidator(kws, minWords).ValidateArticle(article)

			if integrity {
				check := validator.ValidateIntegrity(article)
				result.Errors = append(result.Errors, check.Errors...)
				result.IsValid = result.IsValid && check.IsValid
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.String())
			result.PrintErrors(out)
			result.PrintWarnings(out)

			if !result.IsValid {
				return ErrInvalidArticle
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&keywords, "keywords", "k", nil, "keywords that must appear in the text")
	cmd.Flags().IntVar(&minWords, "min-words", validator.DefaultMinWords, "word count below which a warning is issued")
	cmd.Flags().BoolVar(&integrity, "integrity", false, "also verify the provenance block")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return err
}
