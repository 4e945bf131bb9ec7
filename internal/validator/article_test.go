package validator

import (
	"bytes"
	"strings"
	"testing"

	"seowriter/pkg/metadata"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("palavra ", n))
}

func goodArticle() string {
	return `<meta name="description" content="Guia completo de fones" />
<h1>Melhores fones</h1>
<p>` + words(310) + ` fone bluetooth</p>
<img src="a.jpg" alt="fone" />
<a href="https://amzn.to/x" target="_blank" rel="nofollow noopener">Amazon</a>`
}

func TestValidateArticle_Valid(t *testing.T) {
	result := NewArticleValidator([]string{"fone", "bluetooth"}, 0).ValidateArticle(goodArticle())

	if !result.IsValid {
		t.Fatalf("expected valid article, got errors: %+v", result.Errors)
	}

	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	if result.Stats.H1 != 1 || result.Stats.Images != 1 || result.Stats.ExternalLinks != 1 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}

	if result.Stats.Words < DefaultMinWords {
		t.Errorf("Words = %d, want at least %d", result.Stats.Words, DefaultMinWords)
	}
}

func TestValidateArticle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		article string
		field   string
	}{
		{
			name:    "No text",
			article: "<div></div>",
			field:   "body",
		},
		{
			name:    "No h1",
			article: "<h2>Título</h2><p>texto</p>",
			field:   "h1",
		},
		{
			name:    "Placeholder left",
			article: "<h1>T</h1><p>texto [IMAGE: pôr do sol]</p>",
			field:   "images",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewArticleValidator(nil, 1).ValidateArticle(tt.article)

			if result.IsValid {
				t.Fatalf("expected invalid result")
			}

			found := false
			for _, e := range result.Errors {
				if e.Field == tt.field {
					found = true
				}
			}

			if !found {
				t.Errorf("no error for field %q in %+v", tt.field, result.Errors)
			}
		})
	}
}

func TestValidateArticle_Warnings(t *testing.T) {
	article := `<h1>Um</h1><h1>Dois</h1>
<p>texto curto</p>
<img src="a.jpg"><img src="b.jpg" alt="  ">
<a href="https://x.example" target="_blank">x</a>`

	result := NewArticleValidator([]string{"ausente"}, 0).ValidateArticle(article)

	if !result.IsValid {
		t.Fatalf("warnings must not invalidate the article: %+v", result.Errors)
	}

	want := []string{
		"2 <h1> headings",
		"article is short",
		"2 images have no alt text",
		"without rel=noopener",
		"no meta description",
		`keyword "ausente"`,
	}

	joined := strings.Join(result.Warnings, "\n")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Errorf("missing warning containing %q in:\n%s", w, joined)
		}
	}
}

func TestValidateArticle_IgnoresProvenanceBlock(t *testing.T) {
	signed := metadata.Sign(goodArticle(), metadata.Metadata{RunID: "r"})

	result := NewArticleValidator(nil, 0).ValidateArticle(signed)
	if !result.IsValid {
		t.Errorf("signed article reported invalid: %+v", result.Errors)
	}
}

func TestValidateIntegrity(t *testing.T) {
	signed := metadata.Sign(goodArticle(), metadata.Metadata{RunID: "r"})

	if result := ValidateIntegrity(signed); !result.IsValid {
		t.Errorf("expected valid integrity, got %+v", result.Errors)
	}

	tampered := strings.Replace(signed, "Melhores", "Piores", 1)
	if result := ValidateIntegrity(tampered); result.IsValid {
		t.Errorf("expected tampered article to fail integrity check")
	}

	if result := ValidateIntegrity(goodArticle()); result.IsValid {
		t.Errorf("expected unsigned article to fail integrity check")
	}
}

func TestValidationResult_Print(t *testing.T) {
	result := NewArticleValidator(nil, 0).ValidateArticle("<p>[IMAGE: praia]</p>")

	var buf bytes.Buffer

	result.PrintErrors(&buf)
	result.PrintWarnings(&buf)

	out := buf.String()
	for _, want := range []string{"Validation Errors", "[h1]", `Found: "praia"`, "Validation Warnings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if !strings.HasPrefix(result.String(), "❌ INVALID") {
		t.Errorf("String() = %q", result.String())
	}
}
