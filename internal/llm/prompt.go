package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"seowriter/internal/config"
	"seowriter/internal/models"
)

// ArticleSystemPrompt is the system message sent with every article request.
const ArticleSystemPrompt = "You are an expert SEO content writer who creates comprehensive, engaging, and well-structured blog articles optimized for search engines and user engagement."

const articleRequirements = `Requirements:
1. Write a complete HTML article with proper structure (h1, h2, h3, p, ul, ol tags)
2. Include a compelling introduction and conclusion
3. Use SEO best practices with keyword optimization
4. Add meta description and title tags at the beginning
5. For product reviews: Include pros and cons, detailed analysis, and buying recommendations
6. Make the content engaging, informative, and trustworthy
7. Use proper headings hierarchy (H1 for title, H2 for main sections, H3 for subsections)
8. Include call-to-action sections where affiliate links will be placed
9. Add image placeholders with descriptive alt text: [IMAGE: description]
10. Write in a conversational but professional tone
11. Include FAQ section if relevant
12. Add schema markup suggestions in HTML comments`

// BuildArticlePrompt renders the user prompt for an article request. product may be nil.
func BuildArticlePrompt(req models.GenerationRequest, product *models.ProductInfo) string {
	kind := "blog"
	if req.IsReview() {
		kind = "product review"
	}

	var b strings.Builder

	b.WriteString("You are an expert content writer specializing in SEO-optimized blog articles.\n\n")
	fmt.Fprintf(&b, "Task: Write a comprehensive, engaging %s article about: \"%s\"\n\n", kind, req.Topic)

	if req.GeoLocation != "" {
		fmt.Fprintf(&b, "Target Audience: %s", req.GeoLocation)
	}

	b.WriteString("\n")

	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "SEO Keywords to include naturally: %s", strings.Join(req.Keywords, ", "))
	}

	b.WriteString("\n\n")

	if product != nil {
		fmt.Fprintf(&b, "\nProduct Information:\n- Name: %s\n- Description: %s\n- Features: %s\n- Price: %s\n- Specifications: %s\n",
			product.Name, product.Description, strings.Join(product.Features, ", "), product.Price, specsJSON(product.Specifications))
	}

	b.WriteString("\n\n")

	if req.CustomReviews != "" {
		fmt.Fprintf(&b, "\nInclude these customer reviews in the article:\n%s\n", req.CustomReviews)
	}

	b.WriteString("\n\n")
	b.WriteString(articleRequirements)
	b.WriteString("\n\n")

	if req.GeoLocation != "" {
		fmt.Fprintf(&b, "Tailor the content for %s audience, including local considerations, pricing in local currency, and regional preferences.", req.GeoLocation)
	}

	b.WriteString("\n\nFormat: Return ONLY the HTML content, starting with meta tags in HTML comments, then the article body.")

	return b.String()
}

// ArticleRequest builds the completion request for an article from the LLM settings.
func ArticleRequest(cfg config.LLMConfig, req models.GenerationRequest, product *models.ProductInfo) Request {
	return Request{
		System:      ArticleSystemPrompt,
		User:        BuildArticlePrompt(req, product),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

func specsJSON(specs map[string]string) string {
	if specs == nil {
		specs = map[string]string{}
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	// Encoding a string map cannot fail.
	_ = enc.Encode(specs)

	return strings.TrimSuffix(buf.String(), "\n")
}
