package flights

import (
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"

	"utrippin/internal/domain/models"
	"utrippin/internal/utils"
)

const (
	StopsNonStop  = "Non-stop"
	StopsOne      = "1 stop"
	StopsTwoPlus  = "2+ stops"
	TimeMorning   = "Morning (5-12)"
	TimeAfternoon = "Afternoon (12-6)"
	TimeEvening   = "Evening (6-12)"

	defaultCabin   = "Economy"
	unknownAirline = "Unknown"
)

// FilterCriteria narrows a result set. Empty lists do not constrain. A zero
// upper price bound or a zero MaxDuration means no cap.
type FilterCriteria struct {
	PriceRange          [2]float64 `json:"price_range"`
	Airlines            []string   `json:"airlines"`
	Stops               []string   `json:"stops"`
	CabinTypes          []string   `json:"cabin_types"`
	DepartureTimeRanges []string   `json:"departure_time_ranges"`
	ArrivalTimeRanges   []string   `json:"arrival_time_ranges"`
	MaxDuration         float64    `json:"max_duration"`
}

// FilterOptions lists what a filter UI can offer for a result set.
type FilterOptions struct {
	Airlines    []string   `json:"airlines"`
	CabinTypes  []string   `json:"cabin_types"`
	PriceRange  [2]float64 `json:"price_range"`
	MaxDuration float64    `json:"max_duration"`
}

var isoDuration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?`)

// FilterOffers keeps the offers matching every criterion. Offers without
// slices, segments or a parseable price are dropped.
func FilterOffers(offers []models.Offer, c FilterCriteria) []models.Offer {
	out := []models.Offer{}
	for _, o := range offers {
		if matches(o, c) {
			out = append(out, o)
		}
	}
	return out
}

func matches(o models.Offer, c FilterCriteria) bool {
	if len(o.Slices) == 0 || len(o.Slices[0].Segments) == 0 {
		return false
	}
	firstSlice := o.Slices[0]
	lastSlice := o.Slices[len(o.Slices)-1]
	if len(lastSlice.Segments) == 0 {
		return false
	}
	firstSeg := firstSlice.Segments[0]
	lastSeg := lastSlice.Segments[len(lastSlice.Segments)-1]

	price, err := utils.ParseAmount(o.TotalAmount)
	if err != nil {
		return false
	}
	if price < c.PriceRange[0] {
		return false
	}
	if c.PriceRange[1] > 0 && price > c.PriceRange[1] {
		return false
	}

	if len(c.Airlines) > 0 && !slices.Contains(c.Airlines, airlineName(firstSeg)) {
		return false
	}
	if len(c.Stops) > 0 && !slices.Contains(c.Stops, StopsLabel(len(firstSlice.Segments)-1)) {
		return false
	}
	if len(c.CabinTypes) > 0 && !slices.Contains(c.CabinTypes, cabinOf(o)) {
		return false
	}
	if c.MaxDuration > 0 && ParseDuration(firstSlice.Duration) > c.MaxDuration {
		return false
	}
	if len(c.DepartureTimeRanges) > 0 && !anyBucket(c.DepartureTimeRanges, hourOf(firstSeg.DepartingAt)) {
		return false
	}
	if len(c.ArrivalTimeRanges) > 0 && !anyBucket(c.ArrivalTimeRanges, hourOf(lastSeg.ArrivingAt)) {
		return false
	}
	return true
}

// FilterOptionsFor collects the airlines, cabins, price bounds and longest
// outbound duration of a result set.
func FilterOptionsFor(offers []models.Offer) FilterOptions {
	opts := FilterOptions{
		Airlines:    []string{},
		CabinTypes:  []string{},
		PriceRange:  [2]float64{0, 1000},
		MaxDuration: 24,
	}

	airlines := map[string]struct{}{}
	cabins := map[string]struct{}{}
	minPrice, maxPrice := math.Inf(1), 0.0
	maxDuration := 0.0
	pricesSeen := false

	for _, o := range offers {
		if len(o.Slices) == 0 || len(o.Slices[0].Segments) == 0 {
			continue
		}
		airlines[airlineName(o.Slices[0].Segments[0])] = struct{}{}
		cabins[cabinOf(o)] = struct{}{}
		if p, err := utils.ParseAmount(o.TotalAmount); err == nil {
			pricesSeen = true
			minPrice = math.Min(minPrice, p)
			maxPrice = math.Max(maxPrice, p)
		}
		maxDuration = math.Max(maxDuration, math.Ceil(ParseDuration(o.Slices[0].Duration)))
	}

	opts.Airlines = sortedKeys(airlines)
	opts.CabinTypes = sortedKeys(cabins)
	if pricesSeen {
		opts.PriceRange = [2]float64{math.Floor(minPrice), math.Ceil(maxPrice)}
	}
	if maxDuration > 0 {
		opts.MaxDuration = maxDuration
	}
	return opts
}

// ParseDuration converts an ISO-8601 "PT6H30M" duration into hours.
// Anything else yields 0.
func ParseDuration(d string) float64 {
	h, m, ok := durationParts(d)
	if !ok {
		return 0
	}
	return float64(h) + float64(m)/60
}

func durationParts(d string) (hours, minutes int, ok bool) {
	match := isoDuration.FindStringSubmatch(d)
	if match == nil {
		return 0, 0, false
	}
	if match[1] != "" {
		hours, _ = strconv.Atoi(match[1])
	}
	if match[2] != "" {
		minutes, _ = strconv.Atoi(match[2])
	}
	return hours, minutes, true
}

// StopsLabel buckets a stop count the way the filter UI names it.
func StopsLabel(stops int) string {
	switch {
	case stops <= 0:
		return StopsNonStop
	case stops == 1:
		return StopsOne
	default:
		return StopsTwoPlus
	}
}

// InTimeRange reports whether hour falls in the named bucket. Evening wraps
// past midnight. Unknown bucket names match everything; an invalid hour
// (negative) matches no known bucket.
func InTimeRange(hour int, bucket string) bool {
	switch bucket {
	case TimeMorning:
		return hour >= 5 && hour < 12
	case TimeAfternoon:
		return hour >= 12 && hour < 18
	case TimeEvening:
		return hour >= 18 || (hour >= 0 && hour < 5)
	default:
		return true
	}
}

func anyBucket(buckets []string, hour int) bool {
	for _, b := range buckets {
		if InTimeRange(hour, b) {
			return true
		}
	}
	return false
}

// hourOf is the local hour of a vendor timestamp, -1 when unparseable.
func hourOf(ts string) int {
	t, err := utils.ParseTimestamp(ts)
	if err != nil {
		return -1
	}
	return t.Hour()
}

func airlineName(s models.Segment) string {
	if c := s.Carrier(); c != nil && c.Name != "" {
		return c.Name
	}
	return unknownAirline
}

func cabinOf(o models.Offer) string {
	if o.CabinClass == "" {
		return defaultCabin
	}
	return o.CabinClass
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
