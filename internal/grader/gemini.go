package grader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/colonyops/redpen/internal/core/logging"
	"github.com/colonyops/redpen/internal/core/mistake"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("gemini API key is required (set GEMINI_API_KEY or --api-key)")

const systemInstruction = "You are a professional resume auditor. Return strict JSON."

// generator is the subset of genai.Models used by the producer.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProducer asks a Gemini model to grade the document.
type GeminiProducer struct {
	gen      generator
	model    string
	language string
	log      zerolog.Logger
}

// NewGeminiProducer creates a producer backed by the Gemini API.
func NewGeminiProducer(ctx context.Context, apiKey, model, language string) (*GeminiProducer, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newGeminiProducer(client.Models, model, language), nil
}

func newGeminiProducer(gen generator, model, language string) *GeminiProducer {
	return &GeminiProducer{
		gen:      gen,
		model:    model,
		language: language,
		log:      logging.Component("gemini"),
	}
}

func (p *GeminiProducer) Analyze(ctx context.Context, text string) (*mistake.Analysis, error) {
	p.log.Debug().Ctx(ctx).
		Str("model", p.model).
		Str("language", p.language).
		Int("chars", len(text)).
		Msg("requesting analysis")

	resp, err := p.gen.GenerateContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(buildPrompt(text, p.language), genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType:  "application/json",
			ResponseSchema:    analysisSchema(),
			SystemInstruction: genai.NewContentFromText(systemInstruction, ""),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	raw := resp.Text()
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("no response from model")
	}

	a, err := mistake.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	return a, nil
}

// buildPrompt renders the grading prompt. The feedback language applies to
// the summary, strengths, corrections and explanations; quoted text stays
// verbatim so it can be located in the document.
func buildPrompt(text, language string) string {
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = "english"
	}
	r, size := utf8.DecodeRuneInString(lang)
	lang = string(unicode.ToUpper(r)) + lang[size:]

	var b strings.Builder
	b.WriteString("You are a resume teacher: brutally honest, a little funny, never cruel.\n")
	b.WriteString("Read the resume below and mark it like an answer sheet.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Point out every mistake: spelling, grammar, cliches, formatting, weak verbs and content problems.\n")
	b.WriteString("- Give a score from 0 to 100 and a letter grade (A+, A, B+, B, C, D, F).\n")
	b.WriteString("- List three strengths.\n")
	fmt.Fprintf(&b, "- Write the summary, strengths, corrections and explanations in %s.\n\n", lang)
	b.WriteString("IMPORTANT: the 'original' field of each mistake must be an EXACT substring of the resume text so it can be highlighted. ")
	b.WriteString("Do not paraphrase or translate it.\n\n")
	b.WriteString("Resume Text:\n\"\"\"\n")
	b.WriteString(text)
	b.WriteString("\n\"\"\"\n")
	return b.String()
}

func analysisSchema() *genai.Schema {
	categories := make([]string, len(mistake.Categories))
	for i, c := range mistake.Categories {
		categories[i] = c.String()
	}

	mistakeSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"original": {
				Type:        genai.TypeString,
				Description: "The exact text segment from the resume that contains the issue. Must be an exact substring of the input.",
			},
			"correction":  {Type: genai.TypeString, Description: "The suggested correction."},
			"explanation": {Type: genai.TypeString, Description: "A brief explanation of why this is an issue."},
			"type": {
				Type:        genai.TypeString,
				Enum:        categories,
				Description: "The category of the error.",
			},
		},
		Required:         []string{"original", "correction", "explanation", "type"},
		PropertyOrdering: []string{"original", "correction", "explanation", "type"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {
				Type:        genai.TypeInteger,
				Description: "A numeric score from 0 to 100 based on resume quality.",
			},
			"grade": {
				Type:        genai.TypeString,
				Description: "A letter grade (A+, A, B+, B, C, D, F).",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A short, 2-3 sentence overall summary in the voice of a strict but helpful teacher.",
			},
			"strengths": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of 3 key strengths of the resume.",
			},
			"mistakes": {
				Type:  genai.TypeArray,
				Items: mistakeSchema,
			},
		},
		Required:         []string{"score", "grade", "summary", "mistakes", "strengths"},
		PropertyOrdering: []string{"score", "grade", "summary", "strengths", "mistakes"},
	}
}
