package handlers

import (
	"net/http"
	"strings"

	"utrippin/internal/domain/models"
	"utrippin/internal/flights"
	"utrippin/internal/http/middleware"
	"utrippin/internal/services"

	"github.com/gin-gonic/gin"
)

func flightService(c *gin.Context) services.FlightService {
	d := deps()
	return services.FlightService{
		Source:    d.Offers,
		Searches:  d.Searches,
		History:   d.Interactions,
		Usage:     d.Usage,
		RequestID: middleware.GetRequestID(c),
		Now:       d.Now,
	}
}

type offersPayload struct {
	Offers  []models.Offer         `json:"offers"`
	Filters flights.FilterCriteria `json:"filters"`
}

// GET /api/airports?q=
func SearchAirports(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if code := strings.ToUpper(q); len(code) == 3 {
		if a, ok := flights.LookupAirport(code); ok {
			c.JSON(http.StatusOK, gin.H{"airports": []flights.Airport{a}})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"airports": flights.SearchAirports(q)})
}

// POST /api/flights/search
func SearchFlights(c *gin.Context) {
	var req models.FlightSearchRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := flightService(c).Search(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/flights/searches/:id
func RefineFlightSearch(c *gin.Context) {
	res, err := flightService(c).Refine(c.Request.Context(), c.Param("id"), criteriaFromQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/flights/offers/group
func GroupFlightOffers(c *gin.Context) {
	var p offersPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	c.JSON(http.StatusOK, flightService(c).GroupOffers(c.Request.Context(), p.Offers, p.Filters))
}

// POST /api/flights/offers/display
func DisplayFlightOffers(c *gin.Context) {
	var p offersPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	type offerView struct {
		Card   flights.DisplayCard     `json:"card"`
		Slices []flights.FlightDisplay `json:"slices"`
		Bags   flights.BaggageInfo     `json:"baggage"`
		Refund flights.RefundPolicy    `json:"refund_policy"`
	}
	out := make([]offerView, 0, len(p.Offers))
	for _, o := range p.Offers {
		v := offerView{
			Card:   flights.ToDisplayCard(o),
			Bags:   flights.ExtractBaggageInfo(o),
			Refund: flights.ExtractRefundPolicy(o),
		}
		for _, s := range o.Slices {
			v.Slices = append(v.Slices, flights.ExtractFlightDisplay(s))
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, gin.H{"offers": out})
}

// criteriaFromQuery reads refine filters: min_price, max_price, airlines,
// stops, cabin_types, departure_times, arrival_times, max_duration.
func criteriaFromQuery(c *gin.Context) flights.FilterCriteria {
	var f flights.FilterCriteria
	if v := queryFloat(c, "min_price"); v != nil {
		f.PriceRange[0] = *v
	}
	if v := queryFloat(c, "max_price"); v != nil {
		f.PriceRange[1] = *v
	}
	if v := queryFloat(c, "max_duration"); v != nil {
		f.MaxDuration = *v
	}
	f.Airlines = queryList(c, "airlines")
	f.Stops = queryList(c, "stops")
	f.CabinTypes = queryList(c, "cabin_types")
	f.DepartureTimeRanges = queryList(c, "departure_times")
	f.ArrivalTimeRanges = queryList(c, "arrival_times")
	return f
}
