package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/cache"
	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

// leverAdapter talks to the public Lever postings API. The index already
// carries most fields; detail is a second request for the full body, whose
// sections get flattened into one plain-text blob.
type leverAdapter struct {
	httpSource
	baseURL  string
	cache    cache.Cache
	cacheTTL time.Duration
}

func newLever(deps Deps) *leverAdapter {
	return &leverAdapter{
		httpSource: newHTTPSource(deps),
		baseURL:    deps.Config.LeverAPIBaseURL,
		cache:      deps.Cache,
		cacheTTL:   deps.Config.CacheTTL,
	}
}

func (a *leverAdapter) Platform() models.Platform { return models.PlatformLever }

type leverPosting struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	HostedURL     string `json:"hostedUrl"`
	CreatedAt     int64  `json:"createdAt"`
	WorkplaceType string `json:"workplaceType"`
	Categories    struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Department string `json:"department"`
	} `json:"categories"`
	Description      string `json:"description"`
	DescriptionPlain string `json:"descriptionPlain"`
	Lists            []struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	} `json:"lists"`
	AdditionalPlain string `json:"additionalPlain"`
}

func (p *leverPosting) location() string {
	if p.Categories.Location != "" {
		return p.Categories.Location
	}
	return p.WorkplaceType
}

func (a *leverAdapter) FetchIndex(ctx context.Context, identifier string) ([]models.SourceListingRef, error) {
	ctx, span := tracer.Start(ctx, "lever.FetchIndex")
	defer span.End()
	span.SetAttributes(telemetry.String("ats.board", identifier))

	url := fmt.Sprintf("%s/%s?mode=json", a.baseURL, identifier)
	data, err := a.fetch(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var postings []leverPosting
	if err := json.Unmarshal(data, &postings); err != nil {
		span.RecordError(err)
		return nil, syncerrors.Transient("decoding lever index", err)
	}

	refs := make([]models.SourceListingRef, 0, len(postings))
	for _, p := range postings {
		if p.ID == "" || p.HostedURL == "" {
			a.logger.Warn("skipping lever posting with missing fields",
				zap.String("board", identifier),
				zap.String("title", p.Text))
			continue
		}
		refs = append(refs, models.SourceListingRef{
			ID:       p.ID,
			URL:      p.HostedURL,
			Title:    strings.TrimSpace(p.Text),
			Location: p.location(),
		})
	}

	span.SetAttributes(telemetry.Int("ats.listings", len(refs)))
	a.logger.Debug("fetched lever index",
		zap.String("board", identifier),
		zap.Int("count", len(refs)))
	return refs, nil
}

func (a *leverAdapter) FetchDetail(ctx context.Context, identifier string, ref models.SourceListingRef) (*models.SourceDetail, error) {
	ctx, span := tracer.Start(ctx, "lever.FetchDetail")
	defer span.End()
	span.SetAttributes(
		telemetry.String("ats.board", identifier),
		telemetry.String("ats.listing_id", ref.ID),
	)

	cacheKey := detailCacheKey(models.PlatformLever, identifier, ref.ID)
	if a.cache != nil {
		var cached models.SourceDetail
		if err := a.cache.Get(ctx, cacheKey, &cached); err == nil {
			span.SetAttributes(telemetry.String("cache.result", "hit"))
			return &cached, nil
		} else if err != cache.ErrNotFound {
			a.logger.Warn("cache error for lever detail", zap.Error(err))
		}
	}

	url := fmt.Sprintf("%s/%s/%s?mode=json", a.baseURL, identifier, ref.ID)
	data, err := a.fetch(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var posting leverPosting
	if err := json.Unmarshal(data, &posting); err != nil {
		span.RecordError(err)
		return nil, syncerrors.Transient("decoding lever detail", err)
	}
	if posting.Text == "" {
		return nil, syncerrors.Normalization("lever detail missing title", nil)
	}

	category := posting.Categories.Team
	if category == "" {
		category = posting.Categories.Department
	}
	if category == "" {
		category = "General"
	}

	publishedAt := time.Now()
	if posting.CreatedAt > 0 {
		publishedAt = time.UnixMilli(posting.CreatedAt)
	}

	detail := &models.SourceDetail{
		Platform:        models.PlatformLever,
		Ref:             ref,
		CategoryHint:    category,
		Title:           strings.TrimSpace(posting.Text),
		Location:        posting.location(),
		DescriptionHTML: posting.Description,
		CombinedText:    combineLeverContent(&posting),
		RawPayload:      json.RawMessage(data),
		PublishedAt:     publishedAt,
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, cacheKey, *detail, a.cacheTTL); err != nil {
			a.logger.Warn("failed to cache lever detail", zap.Error(err))
		}
	}

	return detail, nil
}

var leverTagPattern = regexp.MustCompile(`<[^>]+>`)

// combineLeverContent joins the main description, every list section, and
// the closing blurb into one plain string, so no section is lost when the
// body is parsed or handed to extraction.
func combineLeverContent(p *leverPosting) string {
	var b strings.Builder

	if p.DescriptionPlain != "" {
		b.WriteString(p.DescriptionPlain)
		b.WriteString("\n\n")
	}

	for _, list := range p.Lists {
		if list.Text != "" {
			b.WriteString("## ")
			b.WriteString(list.Text)
			b.WriteString("\n")
		}
		if list.Content != "" {
			content := strings.ReplaceAll(list.Content, "<li>", "- ")
			content = strings.ReplaceAll(content, "</li>", "\n")
			content = leverTagPattern.ReplaceAllString(content, "")
			b.WriteString(content)
			b.WriteString("\n\n")
		}
	}

	if p.AdditionalPlain != "" {
		b.WriteString(p.AdditionalPlain)
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String())
}
