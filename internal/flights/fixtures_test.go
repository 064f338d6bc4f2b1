package flights

import (
	"fmt"

	"utrippin/internal/domain/models"
)

func offerFixture(id, amount, code, name string, segments int, departing string) models.Offer {
	segs := make([]models.Segment, segments)
	stops := []string{"MIA", "ATL", "DFW", "DEN", "LAX"}
	for i := range segs {
		from := stops[i]
		to := stops[i+1]
		if i == segments-1 {
			to = "LAX"
		}
		segs[i] = models.Segment{
			Origin:           &models.Place{IATACode: from},
			Destination:      &models.Place{IATACode: to},
			OperatingCarrier: &models.Carrier{IATACode: code, Name: name},
			DepartingAt:      departing,
			ArrivingAt:       departing,
			FlightNumber:     fmt.Sprintf("%s%d", code, 100+i),
		}
	}
	return models.Offer{
		ID:            id,
		TotalAmount:   amount,
		TotalCurrency: "USD",
		CabinClass:    "economy",
		Slices: []models.Slice{{
			Duration: "PT5H30M",
			Segments: segs,
		}},
	}
}
