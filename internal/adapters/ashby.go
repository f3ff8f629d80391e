package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/cache"
	"github.com/sol-flex/aijobcareer/internal/htmlutil"
	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

const ashbyBoardQuery = `query ApiJobBoardWithTeams($organizationHostedJobsPageName: String!) {
  jobBoard: jobBoardWithTeams(
    organizationHostedJobsPageName: $organizationHostedJobsPageName
  ) {
    jobPostings {
      id
      title
    }
  }
}`

// ashbyAdapter lists postings through Ashby's board GraphQL endpoint. Detail
// pages render client-side, so the detail payload is the hosted page HTML,
// cleaned, destined for generative extraction rather than field mapping.
type ashbyAdapter struct {
	httpSource
	graphqlURL string
	jobsBase   string
	cache      cache.Cache
	cacheTTL   time.Duration
}

func newAshby(deps Deps) *ashbyAdapter {
	return &ashbyAdapter{
		httpSource: newHTTPSource(deps),
		graphqlURL: deps.Config.AshbyGraphQLURL,
		jobsBase:   deps.Config.AshbyJobsBaseURL,
		cache:      deps.Cache,
		cacheTTL:   deps.Config.CacheTTL,
	}
}

func (a *ashbyAdapter) Platform() models.Platform { return models.PlatformAshby }

func (a *ashbyAdapter) FetchIndex(ctx context.Context, identifier string) ([]models.SourceListingRef, error) {
	ctx, span := tracer.Start(ctx, "ashby.FetchIndex")
	defer span.End()
	span.SetAttributes(telemetry.String("ats.board", identifier))

	reqBody, err := json.Marshal(map[string]interface{}{
		"operationName": "ApiJobBoardWithTeams",
		"variables": map[string]string{
			"organizationHostedJobsPageName": identifier,
		},
		"query": ashbyBoardQuery,
	})
	if err != nil {
		return nil, syncerrors.Transient("marshaling ashby query", err)
	}

	url := fmt.Sprintf("%s?op=ApiJobBoardWithTeams", a.graphqlURL)
	data, err := a.fetch(ctx, http.MethodPost, url, bytes.NewReader(reqBody), "application/json")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var payload struct {
		Data struct {
			JobBoard *struct {
				JobPostings []struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				} `json:"jobPostings"`
			} `json:"jobBoard"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		span.RecordError(err)
		return nil, syncerrors.Transient("decoding ashby index", err)
	}
	if payload.Data.JobBoard == nil {
		return nil, syncerrors.Transient("unexpected ashby response structure", nil)
	}

	refs := make([]models.SourceListingRef, 0, len(payload.Data.JobBoard.JobPostings))
	for _, p := range payload.Data.JobBoard.JobPostings {
		if p.ID == "" {
			a.logger.Warn("skipping ashby posting with missing id",
				zap.String("board", identifier),
				zap.String("title", p.Title))
			continue
		}
		refs = append(refs, models.SourceListingRef{
			ID:    p.ID,
			URL:   fmt.Sprintf("%s/%s/%s", a.jobsBase, identifier, p.ID),
			Title: p.Title,
		})
	}

	span.SetAttributes(telemetry.Int("ats.listings", len(refs)))
	a.logger.Debug("fetched ashby index",
		zap.String("board", identifier),
		zap.Int("count", len(refs)))
	return refs, nil
}

func (a *ashbyAdapter) FetchDetail(ctx context.Context, identifier string, ref models.SourceListingRef) (*models.SourceDetail, error) {
	ctx, span := tracer.Start(ctx, "ashby.FetchDetail")
	defer span.End()
	span.SetAttributes(
		telemetry.String("ats.board", identifier),
		telemetry.String("ats.listing_id", ref.ID),
	)

	cacheKey := detailCacheKey(models.PlatformAshby, identifier, ref.ID)
	if a.cache != nil {
		var cached models.SourceDetail
		if err := a.cache.Get(ctx, cacheKey, &cached); err == nil {
			span.SetAttributes(telemetry.String("cache.result", "hit"))
			return &cached, nil
		} else if err != cache.ErrNotFound {
			a.logger.Warn("cache error for ashby detail", zap.Error(err))
		}
	}

	data, err := a.fetch(ctx, http.MethodGet, ref.URL, nil, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	detail := &models.SourceDetail{
		Platform:     models.PlatformAshby,
		Ref:          ref,
		Title:        ref.Title,
		HTML:         htmlutil.Clean(string(data)),
		PublishedAt:  time.Now(),
		CategoryHint: "General",
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, cacheKey, *detail, a.cacheTTL); err != nil {
			a.logger.Warn("failed to cache ashby detail", zap.Error(err))
		}
	}

	return detail, nil
}
