package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seowriter/pkg/metadata"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestOptimizeCommand(t *testing.T) {
	out, err := execute(t, "<h2>Fones</h2><p>Compre na Amazon.</p>[IMAGE: fone azul]",
		"optimize", "--topic", "Fones", "-k", "fone,bluetooth", "-a", "Amazon=https://amzn.to/x")

	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Fones</h1>")
	assert.Contains(t, out, "Ver em Amazon")
	assert.Contains(t, out, "[Image: fone azul]")
	assert.Contains(t, out, `<meta name="keywords" content="fone, bluetooth" />`)
}

func TestOptimizeCommand_Errors(t *testing.T) {
	_, err := execute(t, "<p>x</p>", "optimize")
	assert.Error(t, err, "topic is required")

	_, err = execute(t, "<p>x</p>", "optimize", "--topic", "x", "-a", "no-separator")
	assert.Error(t, err)
}

func TestOptimizeCommand_WritesFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "draft.html")
	outFile := filepath.Join(dir, "final.html")

	require.NoError(t, os.WriteFile(in, []byte("<p>Texto.</p>"), 0644))

	out, err := execute(t, "", "optimize", in, "--topic", "Texto", "-o", outFile)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!-- SEO Meta Tags -->")
}

func TestSpellcheckCommand_Basic(t *testing.T) {
	out, err := execute(t, "Teh goverment wil recieve", "spellcheck", "--mode", "basic")

	require.NoError(t, err)
	assert.Equal(t, "The government wil receive", out)
}

func TestReportCommand_JSON(t *testing.T) {
	article := metadata.Sign("<h1>Fone</h1>\n<p>fone bom fone barato</p>", metadata.Metadata{RunID: "r"})

	out, err := execute(t, article, "report", "--json", "-k", "fone")
	require.NoError(t, err)

	var report struct {
		WordCount      int                `json:"wordCount"`
		KeywordDensity map[string]float64 `json:"keywordDensity"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 5, report.WordCount)
	assert.InDelta(t, 60.0, report.KeywordDensity["fone"], 0.001)
}

func TestReportCommand_Table(t *testing.T) {
	out, err := execute(t, "<h1>Fone</h1><p>texto</p>", "report")

	require.NoError(t, err)
	assert.Contains(t, out, "| Metric")
	assert.Contains(t, out, "| H1 ")
}

func TestVerifyCommand(t *testing.T) {
	signed := metadata.Sign("<p>artigo</p>", metadata.Metadata{
		GeneratedAt: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC),
		RunID:       "run-1",
		Generator:   "openai/gpt-4-turbo-preview",
	})

	out, err := execute(t, signed, "verify")
	require.NoError(t, err)
	assert.Equal(t, "OK run=run-1 generated=2026-10-18T08:00:00Z generator=openai/gpt-4-turbo-preview\n", out)

	_, err = execute(t, strings.Replace(signed, "artigo", "artigo editado", 1), "verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modified after signing")

	_, err = execute(t, "<p>sem assinatura</p>", "verify")
	assert.ErrorIs(t, err, metadata.ErrNoMetadataBlock)
}

func TestRootCommand_BadConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("logging:\n  level: loud\n"), 0644))

	_, err := execute(t, "x", "--config", cfgFile, "spellcheck", "--mode", "off")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "<h2>Sem título</h2><p>[IMAGE: praia]</p>", "validate")

	assert.ErrorIs(t, err, ErrInvalidArticle)
	assert.Contains(t, out, "❌ INVALID")
	assert.Contains(t, out, "[h1]")

	article := "<h1>Fones</h1><p>" + strings.Repeat("fone ", 20) + "</p>"

	out, err = execute(t, article, "validate", "--min-words", "10", "-k", "fone")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ VALID")

	_, err = execute(t, article, "validate", "--min-words", "10", "--integrity")
	assert.ErrorIs(t, err, ErrInvalidArticle)
}
