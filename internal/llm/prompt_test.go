package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seowriter/internal/config"
	"seowriter/internal/models"
)

func TestBuildArticlePrompt_General(t *testing.T) {
	prompt := BuildArticlePrompt(models.GenerationRequest{
		Type:  models.ArticleGeneral,
		Topic: "Como escolher uma cafeteira",
	}, nil)

	assert.Contains(t, prompt, `engaging blog article about: "Como escolher uma cafeteira"`)
	assert.Contains(t, prompt, "9. Add image placeholders with descriptive alt text: [IMAGE: description]")
	assert.Contains(t, prompt, "12. Add schema markup suggestions in HTML comments")
	assert.NotContains(t, prompt, "Target Audience")
	assert.NotContains(t, prompt, "SEO Keywords")
	assert.NotContains(t, prompt, "Product Information")
	assert.NotContains(t, prompt, "Tailor the content")
	assert.True(t, strings.HasSuffix(prompt, "then the article body."))
}

func TestBuildArticlePrompt_ReviewWithEverything(t *testing.T) {
	product := models.NewProductInfo()
	product.Name = "Fone X"
	product.Description = "Fone sem fio"
	product.Price = "R$ 199"
	product.Features = []string{"ANC", "Bluetooth 5.3"}
	product.Specifications = map[string]string{"Peso": "50g", "Cor": "Preto & Branco"}

	prompt := BuildArticlePrompt(models.GenerationRequest{
		Type:          models.ArticleReview,
		Topic:         "Fone X",
		Keywords:      []string{"fone", "bluetooth"},
		GeoLocation:   "Brasil",
		CustomReviews: "Muito bom!",
	}, &product)

	assert.Contains(t, prompt, "engaging product review article")
	assert.Contains(t, prompt, "Target Audience: Brasil")
	assert.Contains(t, prompt, "SEO Keywords to include naturally: fone, bluetooth")
	assert.Contains(t, prompt, "- Features: ANC, Bluetooth 5.3")
	assert.Contains(t, prompt, `- Specifications: {"Cor":"Preto & Branco","Peso":"50g"}`)
	assert.Contains(t, prompt, "Include these customer reviews in the article:\nMuito bom!")
	assert.Contains(t, prompt, "Tailor the content for Brasil audience")
}

func TestArticleRequest(t *testing.T) {
	cfg := config.Default().LLM

	req := ArticleRequest(cfg, models.GenerationRequest{Topic: "t"}, nil)

	assert.Equal(t, ArticleSystemPrompt, req.System)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 4000, req.MaxTokens)
	assert.Empty(t, req.Model)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("openai", func(t *testing.T) {
		c, err := New(ctx, config.Default().LLM, nil)
		require.NoError(t, err)
		assert.IsType(t, &OpenAIClient{}, c)
	})

	t.Run("gemini", func(t *testing.T) {
		cfg := config.Default().LLM
		cfg.Provider = config.ProviderGemini
		cfg.APIKey = "k"

		c, err := New(ctx, cfg, nil)
		require.NoError(t, err)

		gc, ok := c.(*GeminiClient)
		require.True(t, ok)
		assert.Equal(t, DefaultGeminiModel, gc.model)
	})

	t.Run("gemini without key", func(t *testing.T) {
		cfg := config.Default().LLM
		cfg.Provider = config.ProviderGemini

		_, err := New(ctx, cfg, nil)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default().LLM
		cfg.Provider = "mystery"

		_, err := New(ctx, cfg, nil)
		assert.ErrorIs(t, err, config.ErrUnknownProvider)
	})
}

func TestCompleterFunc(t *testing.T) {
	var c Completer = CompleterFunc(func(_ context.Context, req Request) (string, error) {
		return strings.ToUpper(req.User), nil
	})

	out, err := c.Complete(context.Background(), Request{User: "abc"})

	require.NoError(t, err)
	assert.Equal(t, "ABC", out)
}
