package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/config"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

// Draft is the schema the extraction service must fill. Field names mirror
// the canonical listing; validation fails closed, so a partially-filled
// response never reaches the store.
type Draft struct {
	Company           string   `json:"company"`
	CompanyLogo       string   `json:"companyLogo,omitempty"`
	Title             string   `json:"title"`
	PrimaryRole       string   `json:"primaryRole"`
	PositionType      string   `json:"positionType"`
	LocationType      string   `json:"locationType"`
	Country           string   `json:"country"`
	Locations         string   `json:"locations"`
	Description       string   `json:"description"`
	Keywords          string   `json:"keywords,omitempty"`
	Currency          string   `json:"currency"`
	SalaryMin         *float64 `json:"salaryMin,omitempty"`
	SalaryMax         *float64 `json:"salaryMax,omitempty"`
	EquityMin         *float64 `json:"equityMin,omitempty"`
	EquityMax         *float64 `json:"equityMax,omitempty"`
	CryptoPayment     bool     `json:"cryptoPayment"`
	ApplicationMethod string   `json:"applicationMethod"`
	ApplicationURL    string   `json:"applicationUrl"`
}

func (d *Draft) Validate() error {
	missing := make([]string, 0, 4)
	for field, value := range map[string]string{
		"title":             d.Title,
		"primaryRole":       d.PrimaryRole,
		"positionType":      d.PositionType,
		"locationType":      d.LocationType,
		"country":           d.Country,
		"locations":         d.Locations,
		"description":       d.Description,
		"applicationMethod": d.ApplicationMethod,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

type ExtractRequest struct {
	AccountName  string
	CategoryHint string
	// Payload is the serialized source body: cleaned page HTML or the raw
	// API response, whichever the adapter produced.
	Payload string
}

type Extraction struct {
	Draft            Draft
	PromptTokens     int
	CompletionTokens int
	// Cost in dollars for this single call, logged so a run's extraction
	// spend stays auditable.
	Cost float64
}

// Extractor converts an unstructured source payload into a canonical draft.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (*Extraction, error)
}

// gpt-4o-mini pricing per million tokens.
const (
	promptTokenRate     = 0.150 / 1_000_000
	completionTokenRate = 0.600 / 1_000_000
)

const extractionSystemPrompt = "You are a job posting analyzer. Extract job details and return only valid JSON matching the specified schema. Make educated guesses for missing fields based on context. Ensure all required fields have values."

const extractionPromptTemplate = `Analyze this job posting content and extract information into a JSON object with exactly these fields:

{
    "company": "Company name",
    "companyLogo": "Logo URL if identifiable, else omit",
    "title": "Job title",
    "primaryRole": "Main role category",
    "positionType": "Full-Time/Part-Time/Contract",
    "locationType": "Remote/On Site/Hybrid",
    "country": "Country of job",
    "locations": "City/Cities, or Remote",
    "description": "Full job description",
    "keywords": "Relevant skills and technologies, comma separated",
    "currency": "Salary currency (default USD)",
    "salaryMin": 0,
    "salaryMax": 0,
    "equityMin": 0,
    "equityMax": 0,
    "cryptoPayment": false,
    "applicationMethod": "Apply by website",
    "applicationUrl": "Application URL"
}

IMPORTANT:
- Use the EXACT original job description text for the description field
- Add markdown formatting to the description: ## for section headers, bullet
  points for lists, **bold** for emphasis; preserve existing structure
- Do not summarize or remove any content
- Ignore navigation menus, footers, similar-jobs lists, and advertisements
- If currency is not specified, use "USD"
- Omit salary/equity fields entirely when not listed; numeric values only
- If applicationMethod is not clear, use "Apply by website"
- Return ONLY the JSON object, no markdown code fences

FULL JOB DATA:
%s

Company name: %s
Role category hint: %s`

// OpenAIExtractor calls an OpenAI-compatible chat model in JSON mode. It is
// constructed once at startup and passed by reference; there is no ambient
// client state.
type OpenAIExtractor struct {
	llm      *openai.LLM
	maxChars int
	timeout  time.Duration
	logger   *zap.Logger
}

func NewOpenAIExtractor(cfg *config.Config, logger *zap.Logger) (*OpenAIExtractor, error) {
	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.OpenAIModel),
		openai.WithResponseFormat(openai.ResponseFormatJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}

	return &OpenAIExtractor{
		llm:      llm,
		maxChars: cfg.ExtractionMaxChars,
		timeout:  cfg.ExtractionTimeout,
		logger:   logger,
	}, nil
}

func (e *OpenAIExtractor) Extract(ctx context.Context, req ExtractRequest) (*Extraction, error) {
	ctx, span := tracer.Start(ctx, "OpenAIExtractor.Extract")
	defer span.End()
	span.SetAttributes(telemetry.String("extract.account", req.AccountName))

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	payload := req.Payload
	if e.maxChars > 0 && len(payload) > e.maxChars {
		payload = payload[:e.maxChars]
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, payload, req.AccountName, req.CategoryHint)

	resp, err := e.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, extractionSystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithTemperature(0.2),
	)
	if err != nil {
		span.RecordError(err)
		return nil, syncerrors.Normalization("extraction service call failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, syncerrors.Normalization("extraction service returned no choices", nil)
	}

	choice := resp.Choices[0]

	var draft Draft
	if err := json.Unmarshal([]byte(stripJSONFences(choice.Content)), &draft); err != nil {
		span.RecordError(err)
		return nil, syncerrors.Normalization("extraction response is not valid JSON", err)
	}
	if err := draft.Validate(); err != nil {
		span.RecordError(err)
		return nil, syncerrors.Normalization("extraction response failed schema validation", err)
	}

	extraction := &Extraction{
		Draft:            draft,
		PromptTokens:     generationInfoInt(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: generationInfoInt(choice.GenerationInfo, "CompletionTokens"),
	}
	extraction.Cost = float64(extraction.PromptTokens)*promptTokenRate +
		float64(extraction.CompletionTokens)*completionTokenRate

	span.SetAttributes(
		telemetry.Int("extract.prompt_tokens", extraction.PromptTokens),
		telemetry.Int("extract.completion_tokens", extraction.CompletionTokens),
		telemetry.Float("extract.cost_usd", extraction.Cost),
	)
	e.logger.Debug("extraction call",
		zap.String("account", req.AccountName),
		zap.Int("prompt_tokens", extraction.PromptTokens),
		zap.Int("completion_tokens", extraction.CompletionTokens),
		zap.Float64("cost_usd", extraction.Cost))

	return extraction, nil
}

func generationInfoInt(info map[string]any, key string) int {
	if info == nil {
		return 0
	}
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// stripJSONFences tolerates models that wrap output in markdown fences
// despite JSON mode.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
