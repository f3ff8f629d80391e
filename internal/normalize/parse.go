package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sol-flex/aijobcareer/internal/models"
)

// salaryPattern matches "$N - $M" ranges in free text, with optional commas
// and k-suffixes. Best-effort heuristic: no match means no salary, never an
// error.
var salaryPattern = regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*([Kk]?)\s*[-\x{2013}\x{2014}]\s*\$?\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*([Kk]?)`)

// ParseSalaryRange extracts a numeric compensation range from free text.
// Both results are nil when no range is present.
func ParseSalaryRange(text string) (min, max *float64) {
	m := salaryPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}

	lo := parseAmount(m[1], m[2])
	hi := parseAmount(m[3], m[4])
	if lo == 0 || hi == 0 || hi < lo {
		return nil, nil
	}
	return &lo, &hi
}

func parseAmount(num, suffix string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return 0
	}
	if strings.EqualFold(suffix, "k") {
		f *= 1000
	}
	return f
}

var countryMap = map[string]string{
	"US":  "USA",
	"USA": "USA",
	"UK":  "United Kingdom",
	"IE":  "Ireland",
	"DE":  "Germany",
	"FR":  "France",
	"NL":  "Netherlands",
	"SG":  "Singapore",
}

// usStates resolves the "City, ST" form. CA is ambiguous with Canada's
// country code; the state reading wins because US postings dominate the
// sources. DE stays out so it keeps resolving to Germany.
var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {},
	"FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {},
	"IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {}, "MA": {},
	"MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {},
	"NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {},
	"OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {}, "TN": {},
	"TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {},
	"WY": {}, "DC": {},
}

// CountryFromLocation decomposes a raw location string ("City, State",
// "City, Country", "Remote") into a country name, defaulting to USA when
// the string is unparseable.
func CountryFromLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return "USA"
	}

	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 1 {
		if strings.Contains(strings.ToLower(location), "remote") {
			return "Remote"
		}
		return "USA"
	}

	last := parts[len(parts)-1]
	if len(last) == 2 {
		if _, ok := usStates[strings.ToUpper(last)]; ok {
			return "USA"
		}
	}
	if mapped, ok := countryMap[strings.ToUpper(last)]; ok && len(last) <= 3 {
		return mapped
	}
	if mapped, ok := countryMap[last]; ok {
		return mapped
	}
	return last
}

var commonTechKeywords = []string{
	"React", "Python", "JavaScript", "TypeScript", "Node.js",
	"AWS", "Docker", "Kubernetes", "Machine Learning", "AI",
	"TensorFlow", "PyTorch", "SQL", "MongoDB", "PostgreSQL",
	"Rust", "Solidity", "Git", "CI/CD", "API", "REST", "GraphQL",
}

// ExtractKeywords scans the posting body for well-known technology names
// and returns them comma-separated.
func ExtractKeywords(text string) string {
	var found []string
	for _, keyword := range commonTechKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}
	return strings.Join(found, ", ")
}

var remotePattern = regexp.MustCompile(`(?i)\b(remote|wfh|work[- ]from[- ]home)\b`)

func inferLocationType(location, body string) string {
	low := strings.ToLower(location)
	switch {
	case strings.Contains(low, "hybrid"):
		return models.LocationHybrid
	case strings.Contains(low, "remote"), remotePattern.MatchString(body):
		return models.LocationRemote
	default:
		return models.LocationOnSite
	}
}

func inferPositionType(text string) string {
	low := strings.ToLower(text)
	switch {
	case strings.Contains(low, "part-time"), strings.Contains(low, "part time"):
		return models.PositionPartTime
	case strings.Contains(low, "contractor"), strings.Contains(low, "contract position"):
		return models.PositionContract
	default:
		return models.PositionFullTime
	}
}
