// Package normalize converts heterogeneous source detail into the canonical
// listing record. Structured platforms are mapped by fixed rules; the rest
// go through the generative extraction service.
package normalize

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/htmlutil"
	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

var tracer = telemetry.GetTracer("aijobcareer/sync/normalize")

// listingTTL is how long a synchronized listing stays live before expiry.
const listingTTL = 30 * 24 * time.Hour

type Normalizer struct {
	extractor Extractor
	logger    *zap.Logger
}

func New(extractor Extractor, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		extractor: extractor,
		logger:    logger,
	}
}

// Normalize produces the canonical listing for one source detail. The
// returned cost is the extraction spend for this item (zero on the
// structured path). Account-owned fields (company name, logo, role
// category) always win over source- or model-derived text.
func (n *Normalizer) Normalize(ctx context.Context, account *models.Account, detail *models.SourceDetail) (*models.CanonicalListing, float64, error) {
	ctx, span := tracer.Start(ctx, "Normalizer.Normalize")
	defer span.End()
	span.SetAttributes(
		telemetry.String("account", account.Name),
		telemetry.String("platform", string(detail.Platform)),
	)

	var (
		listing *models.CanonicalListing
		cost    float64
		err     error
	)
	if detail.Platform.Structured() {
		listing, err = n.fromStructured(detail)
	} else {
		listing, cost, err = n.fromExtraction(ctx, account, detail)
	}
	if err != nil {
		span.RecordError(err)
		return nil, cost, err
	}

	n.stampDefaults(listing, account, detail)
	return listing, cost, nil
}

func (n *Normalizer) fromStructured(detail *models.SourceDetail) (*models.CanonicalListing, error) {
	if detail.Title == "" {
		return nil, syncerrors.Normalization("structured detail missing title", nil)
	}

	body := detail.CombinedText
	if body == "" {
		body = htmlutil.Text(detail.DescriptionHTML)
	}

	salaryMin, salaryMax := ParseSalaryRange(body)

	return &models.CanonicalListing{
		Title:        detail.Title,
		PrimaryRole:  detail.CategoryHint,
		PositionType: inferPositionType(body),
		LocationType: inferLocationType(detail.Location, body),
		Country:      CountryFromLocation(detail.Location),
		Locations:    locationsOrRemote(detail.Location),
		Description:  htmlutil.Clean(detail.DescriptionHTML),
		Keywords:     ExtractKeywords(body),
		Currency:     "USD",
		SalaryMin:    salaryMin,
		SalaryMax:    salaryMax,
	}, nil
}

func (n *Normalizer) fromExtraction(ctx context.Context, account *models.Account, detail *models.SourceDetail) (*models.CanonicalListing, float64, error) {
	if n.extractor == nil {
		return nil, 0, syncerrors.Normalization("no extraction service configured for unstructured source", nil)
	}

	payload := detail.HTML
	if payload == "" && detail.RawPayload != nil {
		pretty, err := json.MarshalIndent(detail.RawPayload, "", "  ")
		if err == nil {
			payload = string(pretty)
		} else {
			payload = string(detail.RawPayload)
		}
	}
	if payload == "" {
		return nil, 0, syncerrors.Normalization("unstructured detail carries no payload", nil)
	}

	extraction, err := n.extractor.Extract(ctx, ExtractRequest{
		AccountName:  account.Name,
		CategoryHint: detail.CategoryHint,
		Payload:      payload,
	})
	if err != nil {
		return nil, 0, err
	}

	draft := extraction.Draft
	currency := draft.Currency
	if currency == "" {
		currency = "USD"
	}

	return &models.CanonicalListing{
		Title:             draft.Title,
		PrimaryRole:       draft.PrimaryRole,
		PositionType:      draft.PositionType,
		LocationType:      draft.LocationType,
		Country:           draft.Country,
		Locations:         draft.Locations,
		Description:       draft.Description,
		Keywords:          draft.Keywords,
		Currency:          currency,
		SalaryMin:         draft.SalaryMin,
		SalaryMax:         draft.SalaryMax,
		EquityMin:         draft.EquityMin,
		EquityMax:         draft.EquityMax,
		CryptoPayment:     draft.CryptoPayment,
		ApplicationMethod: draft.ApplicationMethod,
	}, extraction.Cost, nil
}

// stampDefaults applies the fields not owned by the source: account
// identity, lifecycle defaults, and the reconciliation key. Synchronized
// listings come from pre-vetted employer accounts, so they go live
// immediately, unlike self-serve submissions.
func (n *Normalizer) stampDefaults(listing *models.CanonicalListing, account *models.Account, detail *models.SourceDetail) {
	now := time.Now()

	listing.Company = account.Name
	if account.Logo != "" {
		listing.CompanyLogo = account.Logo
	}
	if detail.CategoryHint != "" {
		listing.PrimaryRole = detail.CategoryHint
	}
	if listing.PrimaryRole == "" {
		listing.PrimaryRole = "General"
	}
	if listing.ApplicationMethod == "" {
		listing.ApplicationMethod = models.ApplyByWebsite
	}

	listing.ApplicationURL = detail.Ref.URL
	listing.ID = models.ListingID(account.Name, listing.ApplicationURL)
	listing.Platform = detail.Platform

	listing.Published = true
	listing.PaymentStatus = models.PaymentPaid
	listing.PublishedAt = detail.PublishedAt
	if listing.PublishedAt.IsZero() {
		listing.PublishedAt = now
	}
	listing.ExpiresAt = now.Add(listingTTL)
	listing.CreatedAt = now
	listing.UpdatedAt = now
}

func locationsOrRemote(location string) string {
	if location == "" {
		return "Remote"
	}
	return location
}
