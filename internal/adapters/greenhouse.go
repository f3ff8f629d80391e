package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/cache"
	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

// greenhouseAdapter talks to the public Greenhouse job board API. No
// authentication is required; the quirk of this source is that salary and
// country live only inside the description HTML and are dug out downstream.
type greenhouseAdapter struct {
	httpSource
	baseURL  string
	cache    cache.Cache
	cacheTTL time.Duration
}

func newGreenhouse(deps Deps) *greenhouseAdapter {
	return &greenhouseAdapter{
		httpSource: newHTTPSource(deps),
		baseURL:    deps.Config.GreenhouseAPIBaseURL,
		cache:      deps.Cache,
		cacheTTL:   deps.Config.CacheTTL,
	}
}

func (a *greenhouseAdapter) Platform() models.Platform { return models.PlatformGreenhouse }

type greenhouseIndexItem struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Absolute string      `json:"absolute_url"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
}

func (a *greenhouseAdapter) FetchIndex(ctx context.Context, identifier string) ([]models.SourceListingRef, error) {
	ctx, span := tracer.Start(ctx, "greenhouse.FetchIndex")
	defer span.End()
	span.SetAttributes(telemetry.String("ats.board", identifier))

	url := fmt.Sprintf("%s/%s/jobs", a.baseURL, identifier)
	data, err := a.fetch(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var payload struct {
		Jobs []greenhouseIndexItem `json:"jobs"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		span.RecordError(err)
		return nil, syncerrors.Transient("decoding greenhouse index", err)
	}

	refs := make([]models.SourceListingRef, 0, len(payload.Jobs))
	for _, job := range payload.Jobs {
		if job.ID.String() == "" || job.Absolute == "" {
			// Missing required fields fail the item, not the run.
			a.logger.Warn("skipping greenhouse posting with missing fields",
				zap.String("board", identifier),
				zap.String("title", job.Title))
			continue
		}
		refs = append(refs, models.SourceListingRef{
			ID:       job.ID.String(),
			URL:      job.Absolute,
			Title:    job.Title,
			Location: job.Location.Name,
		})
	}

	span.SetAttributes(telemetry.Int("ats.listings", len(refs)))
	a.logger.Debug("fetched greenhouse index",
		zap.String("board", identifier),
		zap.Int("count", len(refs)))
	return refs, nil
}

type greenhouseDetail struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Absolute string `json:"absolute_url"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
	FirstPublished string `json:"first_published"`
}

func (a *greenhouseAdapter) FetchDetail(ctx context.Context, identifier string, ref models.SourceListingRef) (*models.SourceDetail, error) {
	ctx, span := tracer.Start(ctx, "greenhouse.FetchDetail")
	defer span.End()
	span.SetAttributes(
		telemetry.String("ats.board", identifier),
		telemetry.String("ats.listing_id", ref.ID),
	)

	cacheKey := detailCacheKey(models.PlatformGreenhouse, identifier, ref.ID)
	if a.cache != nil {
		var cached models.SourceDetail
		if err := a.cache.Get(ctx, cacheKey, &cached); err == nil {
			span.SetAttributes(telemetry.String("cache.result", "hit"))
			return &cached, nil
		} else if err != cache.ErrNotFound {
			a.logger.Warn("cache error for greenhouse detail", zap.Error(err))
		}
	}

	url := fmt.Sprintf("%s/%s/jobs/%s", a.baseURL, identifier, ref.ID)
	data, err := a.fetch(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var payload greenhouseDetail
	if err := json.Unmarshal(data, &payload); err != nil {
		span.RecordError(err)
		return nil, syncerrors.Transient("decoding greenhouse detail", err)
	}
	if payload.Title == "" || payload.Content == "" {
		return nil, syncerrors.Normalization("greenhouse detail missing title or content", nil)
	}

	category := "General"
	if len(payload.Departments) > 0 && payload.Departments[0].Name != "" {
		category = payload.Departments[0].Name
	}

	publishedAt := time.Now()
	if t, perr := time.Parse(time.RFC3339, payload.FirstPublished); perr == nil {
		publishedAt = t
	}

	detail := &models.SourceDetail{
		Platform:        models.PlatformGreenhouse,
		Ref:             ref,
		CategoryHint:    category,
		Title:           payload.Title,
		Location:        payload.Location.Name,
		DescriptionHTML: decodeEntities(payload.Content),
		RawPayload:      json.RawMessage(data),
		PublishedAt:     publishedAt,
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, cacheKey, *detail, a.cacheTTL); err != nil {
			a.logger.Warn("failed to cache greenhouse detail", zap.Error(err))
		}
	}

	return detail, nil
}
