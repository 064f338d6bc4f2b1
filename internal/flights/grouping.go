// Package flights holds the offer-level logic of flight search: grouping
// branded fares of the same flight, filter predicates, filter option
// discovery and display formatting.
package flights

import (
	"sort"
	"strconv"
	"strings"

	"utrippin/internal/domain/models"
	"utrippin/internal/utils"
)

const unknownCode = "UNK"

// GroupedFlight is one physical flight with all its fares, cheapest first.
type GroupedFlight struct {
	Key          string         `json:"key"`
	Slices       []models.Slice `json:"slices"`
	Offers       []models.Offer `json:"offers"`
	BaseOffer    models.Offer   `json:"base_offer"`
	LowestPrice  float64        `json:"lowest_price"`
	HighestPrice float64        `json:"highest_price"`
}

// FlightKey identifies the outbound flight of an offer:
// origin-destination-date-hour-airline-segmentCount.
func FlightKey(offer models.Offer) string {
	if len(offer.Slices) == 0 || len(offer.Slices[0].Segments) == 0 {
		return "invalid-" + offer.ID
	}
	outbound := offer.Slices[0]
	segments := outbound.Segments
	first := segments[0]

	date, hour, ok := splitDepartureTime(first.DepartingAt)
	if !ok {
		return "invalid-segment-" + offer.ID
	}

	origin := placeCode(outbound.Origin)
	if origin == "" {
		origin = placeCode(first.Origin)
	}
	if origin == "" {
		origin = unknownCode
	}
	destination := placeCode(outbound.Destination)
	if destination == "" {
		destination = placeCode(segments[len(segments)-1].Destination)
	}
	if destination == "" {
		destination = unknownCode
	}

	airline := unknownCode
	if c := first.Carrier(); c != nil && c.IATACode != "" {
		airline = c.IATACode
	}

	return strings.Join([]string{
		origin,
		destination,
		date,
		hour,
		airline,
		strconv.Itoa(len(segments)),
	}, "-")
}

// GroupOffersByFlight buckets offers by FlightKey. Offers inside a group are
// sorted by price ascending and groups by their lowest price. Both sorts are
// stable so equal prices keep input order.
func GroupOffersByFlight(offers []models.Offer) []GroupedFlight {
	out := []GroupedFlight{}
	if len(offers) == 0 {
		return out
	}

	index := map[string]int{}
	for _, o := range offers {
		key := FlightKey(o)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, GroupedFlight{Key: key})
		}
		out[i].Offers = append(out[i].Offers, o)
	}

	for i := range out {
		g := &out[i]
		sort.SliceStable(g.Offers, func(a, b int) bool {
			return offerPrice(g.Offers[a]) < offerPrice(g.Offers[b])
		})
		g.BaseOffer = g.Offers[0]
		g.Slices = g.BaseOffer.Slices
		g.LowestPrice = offerPrice(g.Offers[0])
		g.HighestPrice = offerPrice(g.Offers[len(g.Offers)-1])
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].LowestPrice < out[b].LowestPrice
	})
	return out
}

// offerPrice treats an unparseable amount as zero so it never breaks ordering.
func offerPrice(o models.Offer) float64 {
	v, err := utils.ParseAmount(o.TotalAmount)
	if err != nil {
		return 0
	}
	return v
}

func placeCode(p *models.Place) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.IATACode)
}

// splitDepartureTime cuts "2025-03-01T08:30:00" into "2025-03-01" and "08".
func splitDepartureTime(ts string) (date, hour string, ok bool) {
	date, rest, found := strings.Cut(strings.TrimSpace(ts), "T")
	if !found || date == "" {
		return "", "", false
	}
	hour, _, _ = strings.Cut(rest, ":")
	if hour == "" {
		return "", "", false
	}
	return date, hour, true
}
