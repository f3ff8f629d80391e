package adapters

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/htmlutil"
	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

// genericAdapter is the fallback for accounts on no supported ATS: it
// scrapes anchors off the career page as the index and hands the raw posting
// page to generative extraction as the detail. Its identifier is the entry
// URL itself, not a board slug.
type genericAdapter struct {
	httpSource
}

func newGeneric(deps Deps) *genericAdapter {
	return &genericAdapter{httpSource: newHTTPSource(deps)}
}

func (a *genericAdapter) Platform() models.Platform { return models.PlatformGeneric }

func (a *genericAdapter) FetchIndex(ctx context.Context, identifier string) ([]models.SourceListingRef, error) {
	ctx, span := tracer.Start(ctx, "generic.FetchIndex")
	defer span.End()
	span.SetAttributes(telemetry.String("ats.entry_url", identifier))

	base, err := url.Parse(identifier)
	if err != nil || base.Host == "" {
		return nil, syncerrors.Transient("invalid entry url", err)
	}

	data, err := a.fetch(ctx, http.MethodGet, identifier, nil, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		span.RecordError(err)
		return nil, syncerrors.Transient("parsing career page html", err)
	}

	seen := map[string]bool{}
	var refs []models.SourceListingRef

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		abs := resolveHref(base, strings.TrimSpace(href))
		if abs == "" || !looksLikePosting(abs) {
			return
		}
		if seen[abs] {
			return
		}
		seen[abs] = true

		refs = append(refs, models.SourceListingRef{
			ID:    abs,
			URL:   abs,
			Title: cleanAnchorText(sel.Text()),
		})
	})

	span.SetAttributes(telemetry.Int("ats.listings", len(refs)))
	a.logger.Debug("scraped generic index",
		zap.String("entry_url", identifier),
		zap.Int("count", len(refs)))
	return refs, nil
}

func (a *genericAdapter) FetchDetail(ctx context.Context, identifier string, ref models.SourceListingRef) (*models.SourceDetail, error) {
	ctx, span := tracer.Start(ctx, "generic.FetchDetail")
	defer span.End()
	span.SetAttributes(telemetry.String("ats.listing_url", ref.URL))

	data, err := a.fetch(ctx, http.MethodGet, ref.URL, nil, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &models.SourceDetail{
		Platform:     models.PlatformGeneric,
		Ref:          ref,
		Title:        ref.Title,
		HTML:         htmlutil.Clean(string(data)),
		PublishedAt:  time.Now(),
		CategoryHint: "General",
	}, nil
}

func resolveHref(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// looksLikePosting keeps anchors that plausibly point at an individual
// posting rather than site chrome. Best effort; the diff keys on exact URL
// equality so over-matching only costs one wasted detail fetch.
func looksLikePosting(u string) bool {
	low := strings.ToLower(u)
	for _, marker := range []string{"/jobs/", "/job/", "/careers/", "/positions/", "/openings/"} {
		if strings.Contains(low, marker) {
			return true
		}
	}
	return false
}

func cleanAnchorText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
