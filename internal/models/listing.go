package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// listingNamespace seeds deterministic listing IDs so that re-adding the
// same (account, application URL) pair always yields the same row key.
var listingNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

const (
	PositionFullTime = "Full-Time"
	PositionPartTime = "Part-Time"
	PositionContract = "Contract"

	LocationRemote = "Remote"
	LocationOnSite = "On Site"
	LocationHybrid = "Hybrid"

	ApplyByWebsite = "Apply by website"

	PaymentPaid = "paid"
)

// SourceListingRef is one entry of an upstream listing index. It lives only
// for the duration of a reconciliation pass and is never persisted as-is.
type SourceListingRef struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

// SourceDetail is the full body of one upstream listing in whatever shape
// the platform returns it. Structured platforms fill the typed fields;
// unstructured ones carry the raw page HTML for generative extraction.
type SourceDetail struct {
	Platform     Platform         `json:"platform"`
	Ref          SourceListingRef `json:"ref"`
	CategoryHint string           `json:"category_hint"`

	Title           string `json:"title"`
	Location        string `json:"location"`
	DescriptionHTML string `json:"description_html"`
	// CombinedText flattens every text section of the posting into one plain
	// string so downstream parsing sees the whole body.
	CombinedText string `json:"combined_text"`

	RawPayload json.RawMessage `json:"raw_payload,omitempty"`
	HTML       string          `json:"html,omitempty"`

	PublishedAt time.Time `json:"published_at"`
}

func (d SourceDetail) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

func (d *SourceDetail) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, d)
}

// CanonicalListing is the persisted, normalized job record. The tuple
// (Company, ApplicationURL) is the reconciliation key and must be unique
// among non-removed rows.
type CanonicalListing struct {
	ID          string
	Company     string
	CompanyLogo string

	Title        string
	PrimaryRole  string
	PositionType string

	LocationType string
	Country      string
	Locations    string

	Description string
	Keywords    string

	Currency      string
	SalaryMin     *float64
	SalaryMax     *float64
	EquityMin     *float64
	EquityMax     *float64
	CryptoPayment bool

	ApplicationMethod string
	ApplicationURL    string
	ApplicationEmail  string

	Published     bool
	PaymentStatus string
	Removed       bool
	RemovedAt     *time.Time

	Platform    Platform
	PublishedAt time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListingID derives the stable row key for an account's listing URL.
func ListingID(account, applicationURL string) string {
	return uuid.NewSHA1(listingNamespace, []byte(account+"|"+applicationURL)).String()
}
