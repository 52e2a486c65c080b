package model

// Candidate is one entry in the curated restaurant catalog.
type Candidate struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Coordinate is a WGS84 point. Produced only by the locator or by a
// resolved place, never fabricated.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ResolvedPlace is a real-world place matched to a Candidate by text search.
// Ephemeral: produced per pick, discarded on the next one.
type ResolvedPlace struct {
	PlaceID    string     `json:"place_id"`
	Coordinate Coordinate `json:"coordinate"`
}

// BusinessStatus mirrors the provider's operational-status enum. An empty
// value means the provider did not report one; consumers treat absent or
// OPERATIONAL the same way.
type BusinessStatus string

const (
	BusinessStatusOperational       BusinessStatus = "OPERATIONAL"
	BusinessStatusClosedTemporarily BusinessStatus = "CLOSED_TEMPORARILY"
	BusinessStatusClosedPermanently BusinessStatus = "CLOSED_PERMANENTLY"
)

// OpeningPeriod is one weekly opening interval. Times are packed local-clock
// HHMM integers (e.g. 2230 = 10:30 PM). A close before its open means the
// period crosses midnight.
type OpeningPeriod struct {
	Day   int `json:"day"` // 0 = Sunday .. 6 = Saturday
	Open  int `json:"open"`
	Close int `json:"close"`
}

// PlaceDetails holds the extended attributes of a resolved place. Every field
// is optional; partial population is the normal case.
type PlaceDetails struct {
	Address          string          `json:"address,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Website          string          `json:"website,omitempty"`
	Rating           *float64        `json:"rating,omitempty"`
	PriceLevel       *int            `json:"price_level,omitempty"` // 1..4, nil = unknown
	WeeklyHours      []string        `json:"weekly_hours,omitempty"`
	Periods          []OpeningPeriod `json:"periods,omitempty"`
	PhotoURLs        []string        `json:"photo_urls,omitempty"`
	EditorialSummary string          `json:"editorial_summary,omitempty"`
	BusinessStatus   BusinessStatus  `json:"business_status,omitempty"`
}

// EnrichedSelection is the single object the consumer renders: the committed
// Candidate plus whatever enrichment survived. Name and Category are always
// present and never overwritten; everything else is additive.
type EnrichedSelection struct {
	Candidate
	Place     *ResolvedPlace `json:"place,omitempty"`
	Details   *PlaceDetails  `json:"details,omitempty"`
	IsOpenNow *bool          `json:"is_open_now,omitempty"`
}

// Outcome is the published result of one pick. It is created fresh per pick
// and replaces the previous outcome atomically once the pipeline settles.
type Outcome struct {
	PickID        string            `json:"pick_id"`
	Selection     EnrichedSelection `json:"selection"`
	DistanceText  string            `json:"distance_text,omitempty"`
	CrowDistanceM float64           `json:"crow_distance_m,omitempty"`
	MapCenter     *Coordinate       `json:"map_center,omitempty"`
	Errors        []StageError      `json:"errors,omitempty"`
	ElapsedMS     int64             `json:"elapsed_ms"`
}

// HasError reports whether the outcome carries an error of the given kind.
func (o *Outcome) HasError(kind ErrorKind) bool {
	for _, e := range o.Errors {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
