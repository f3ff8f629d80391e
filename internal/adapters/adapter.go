// Package adapters holds one fetch implementation per supported upstream
// platform. All adapters converge on the same two return shapes so the
// reconciler and normalizer never see platform specifics.
package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/cache"
	"github.com/sol-flex/aijobcareer/internal/config"
	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

var tracer = telemetry.GetTracer("aijobcareer/sync/adapters")

// Adapter fetches one upstream source. Calls carry a fixed timeout and are
// never retried in-process; a failed account is retried by the next
// scheduled run.
type Adapter interface {
	Platform() models.Platform

	// FetchIndex lists the current upstream postings for one account.
	// The identifier is the board slug extracted by the detector (the
	// generic adapter takes the entry URL itself).
	FetchIndex(ctx context.Context, identifier string) ([]models.SourceListingRef, error)

	// FetchDetail fetches the full body of one posting.
	FetchDetail(ctx context.Context, identifier string, ref models.SourceListingRef) (*models.SourceDetail, error)
}

type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Cache   cache.Cache // nil disables detail caching
	Limiter *HostLimiter
}

// ForPlatform is the single exhaustive dispatch from platform tag to
// adapter. The detector produces the tag; nothing downstream inspects types.
func ForPlatform(platform models.Platform, deps Deps) (Adapter, error) {
	switch platform {
	case models.PlatformGreenhouse:
		return newGreenhouse(deps), nil
	case models.PlatformLever:
		return newLever(deps), nil
	case models.PlatformAshby:
		return newAshby(deps), nil
	case models.PlatformGeneric:
		return newGeneric(deps), nil
	default:
		return nil, syncerrors.UnsupportedPlatform(fmt.Sprintf("no adapter for platform %q", platform), nil)
	}
}

// Factory binds shared dependencies once so the orchestrator resolves
// adapters by tag alone.
type Factory struct {
	deps Deps
}

func NewFactory(deps Deps) *Factory {
	return &Factory{deps: deps}
}

func (f *Factory) ForPlatform(platform models.Platform) (Adapter, error) {
	return ForPlatform(platform, f.deps)
}

// httpSource is the transport shared by every adapter: fixed timeout,
// per-host rate limiting, explicit status handling, no retries.
type httpSource struct {
	client    *http.Client
	userAgent string
	limiter   *HostLimiter
	logger    *zap.Logger
}

func newHTTPSource(deps Deps) httpSource {
	return httpSource{
		client: &http.Client{
			Timeout: deps.Config.SourceTimeout,
		},
		userAgent: deps.Config.SourceUserAgent,
		limiter:   deps.Limiter,
		logger:    deps.Logger,
	}
}

func (s *httpSource) fetch(ctx context.Context, method, url string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, syncerrors.Transient("creating request", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, url); err != nil {
			return nil, syncerrors.Transient("rate limiter wait", err)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("failed to execute request", zap.String("url", url), zap.Error(err))
		return nil, syncerrors.Transient("executing request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("unexpected status code",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode))
		return nil, syncerrors.Transient(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, syncerrors.Transient("reading response body", err)
	}
	return data, nil
}

func detailCacheKey(platform models.Platform, identifier, listingID string) string {
	return fmt.Sprintf("ats:%s:%s:%s", platform, identifier, listingID)
}

// decodeEntities undoes the double-encoding some boards apply to their
// description HTML.
func decodeEntities(s string) string {
	r := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&amp;", "&",
	)
	return r.Replace(s)
}
