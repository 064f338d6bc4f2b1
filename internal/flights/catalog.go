package flights

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"utrippin/internal/domain/models"
	"utrippin/internal/utils"
)

//go:embed sample_offers.json
var sampleOffers []byte

// Catalog answers searches from a fixed set of offer templates. Templates are
// matched by route and cabin, then moved onto the requested dates.
type Catalog struct {
	offers []models.Offer
}

// NewCatalog loads templates from path, or the bundled sample when path is
// empty.
func NewCatalog(path string) (*Catalog, error) {
	data := sampleOffers
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read offer catalog: %w", err)
		}
		data = b
	}

	var offers []models.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, fmt.Errorf("decode offer catalog: %w", err)
	}
	return &Catalog{offers: offers}, nil
}

// NewCatalogFromOffers is used by tests and fixtures.
func NewCatalogFromOffers(offers []models.Offer) *Catalog {
	return &Catalog{offers: offers}
}

func (c *Catalog) Len() int { return len(c.offers) }

// Search returns copies of the matching templates. A request without a
// return date only matches one-way templates, and vice versa. Amounts are
// multiplied by the passenger count.
func (c *Catalog) Search(ctx context.Context, req models.FlightSearchRequest) ([]models.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin := strings.ToUpper(req.Origin)
	destination := strings.ToUpper(req.Destination)
	wantSlices := 1
	if req.ReturnDate != "" {
		wantSlices = 2
	}
	passengers := req.Passengers
	if passengers < 1 {
		passengers = 1
	}

	out := []models.Offer{}
	for _, tpl := range c.offers {
		if len(tpl.Slices) != wantSlices || len(tpl.Slices[0].Segments) == 0 {
			continue
		}
		first := tpl.Slices[0]
		if placeCode(first.Segments[0].Origin) != origin ||
			placeCode(first.Segments[len(first.Segments)-1].Destination) != destination {
			continue
		}
		if req.CabinClass != "" && !strings.EqualFold(req.CabinClass, tpl.CabinClass) {
			continue
		}

		offer, err := instantiate(tpl, []string{req.DepartureDate, req.ReturnDate}, passengers)
		if err != nil {
			return nil, err
		}
		out = append(out, offer)
	}
	return out, nil
}

func instantiate(tpl models.Offer, dates []string, passengers int) (models.Offer, error) {
	raw, err := json.Marshal(tpl)
	if err != nil {
		return models.Offer{}, err
	}
	var o models.Offer
	if err := json.Unmarshal(raw, &o); err != nil {
		return models.Offer{}, err
	}

	for i := range o.Slices {
		if i >= len(dates) || dates[i] == "" || len(o.Slices[i].Segments) == 0 {
			continue
		}
		target, err := utils.ParseDate(dates[i])
		if err != nil {
			return models.Offer{}, fmt.Errorf("invalid date %q: %w", dates[i], err)
		}
		start, err := utils.ParseTimestamp(o.Slices[i].Segments[0].DepartingAt)
		if err != nil {
			continue
		}
		startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		days := int(target.Sub(startDay).Hours() / 24)
		for j := range o.Slices[i].Segments {
			seg := &o.Slices[i].Segments[j]
			seg.DepartingAt = shiftDays(seg.DepartingAt, days)
			seg.ArrivingAt = shiftDays(seg.ArrivingAt, days)
		}
	}

	if amount, err := utils.ParseAmount(o.TotalAmount); err == nil {
		o.TotalAmount = utils.FormatMoney(amount * float64(passengers))
	}
	o.Passengers = make([]models.OfferPassenger, passengers)
	for i := range o.Passengers {
		o.Passengers[i] = models.OfferPassenger{ID: fmt.Sprintf("pas_%d", i+1), Type: "adult"}
	}
	return o, nil
}

// shiftDays moves a vendor timestamp by whole days keeping its layout.
func shiftDays(ts string, days int) string {
	if days == 0 || ts == "" {
		return ts
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.AddDate(0, 0, days).Format(time.RFC3339)
	}
	if t, err := time.Parse("2006-01-02T15:04:05", ts); err == nil {
		return t.AddDate(0, 0, days).Format("2006-01-02T15:04:05")
	}
	return ts
}
