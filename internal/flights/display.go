package flights

import (
	"fmt"
	"strings"

	"utrippin/internal/domain/models"
	"utrippin/internal/utils"
)

const (
	unknownAirlineName = "Unknown Airline"
	defaultAirlineLogo = "/img/default-airline.png"
	airlineLogoCDN     = "https://images.kiwi.com/airlines/64x64/%s.png"
)

// DisplayCard is the flat shape a result list renders.
type DisplayCard struct {
	OfferID          string `json:"offer_id"`
	AirlineName      string `json:"airline_name"`
	AirlineLogo      string `json:"airline_logo"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	Duration         string `json:"duration"`
	Stops            string `json:"stops"`
	Cabin            string `json:"cabin"`
	Baggage          string `json:"baggage"`
	Refundable       bool   `json:"refundable"`
	TotalPrice       string `json:"total_price"`
	Currency         string `json:"currency"`
	FormattedPrice   string `json:"formatted_price"`

	ReturnDepartureTime    string `json:"return_departure_time,omitempty"`
	ReturnArrivalTime      string `json:"return_arrival_time,omitempty"`
	ReturnDuration         string `json:"return_duration,omitempty"`
	ReturnStops            string `json:"return_stops,omitempty"`
	ReturnDepartureAirport string `json:"return_departure_airport,omitempty"`
	ReturnArrivalAirport   string `json:"return_arrival_airport,omitempty"`
}

type AirportRef struct {
	Code string `json:"code"`
	City string `json:"city"`
	Name string `json:"name"`
}

// FlightDisplay is the detail view of one slice.
type FlightDisplay struct {
	AirlineName   string     `json:"airline_name"`
	AirlineCode   string     `json:"airline_code"`
	AirlineLogo   string     `json:"airline_logo"`
	FlightNumber  string     `json:"flight_number"`
	Aircraft      string     `json:"aircraft"`
	Origin        AirportRef `json:"origin"`
	Destination   AirportRef `json:"destination"`
	DepartureTime string     `json:"departure_time"`
	ArrivalTime   string     `json:"arrival_time"`
	Duration      string     `json:"duration"`
	Stops         int        `json:"stops"`
	StopDetails   string     `json:"stop_details"`
	Cabin         string     `json:"cabin"`
	Date          string     `json:"date"`
}

type BaggageOption struct {
	Type        string `json:"type"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

type BaggageInfo struct {
	CarryOn   string          `json:"carry_on"`
	Checked   string          `json:"checked"`
	Available []BaggageOption `json:"available"`
}

type RefundPolicy struct {
	Refundable     bool   `json:"refundable"`
	Changeable     bool   `json:"changeable"`
	Details        string `json:"details"`
	RefundDeadline string `json:"refund_deadline,omitempty"`
	ChangeDeadline string `json:"change_deadline"`
}

// ToDisplayCard flattens an offer for list rendering. Missing pieces fall
// back to placeholders instead of failing.
func ToDisplayCard(o models.Offer) DisplayCard {
	card := DisplayCard{
		OfferID:     o.ID,
		AirlineName: unknownAirlineName,
		AirlineLogo: defaultAirlineLogo,
		Cabin:       titleCabin(o.CabinClass),
		Baggage:     "Carry-on included",
		TotalPrice:  o.TotalAmount,
		Currency:    o.TotalCurrency,
		Stops:       StopsNonStop,
	}
	if card.TotalPrice == "" {
		card.TotalPrice = "0"
	}
	if card.Currency == "" {
		card.Currency = "USD"
	}
	if amount, err := utils.ParseAmount(card.TotalPrice); err == nil {
		card.FormattedPrice = utils.FormatPrice(amount, card.Currency)
	} else {
		card.FormattedPrice = card.Currency + " " + card.TotalPrice
	}
	if o.Conditions != nil {
		card.Refundable = o.Conditions.Refundable
	}

	if len(o.Slices) == 0 {
		return card
	}
	out := o.Slices[0]
	card.Duration = out.Duration
	if len(out.Segments) == 0 {
		return card
	}
	first := out.Segments[0]
	last := out.Segments[len(out.Segments)-1]

	if c := first.Carrier(); c != nil {
		if c.Name != "" {
			card.AirlineName = c.Name
		}
		if c.LogoSymbolURL != "" {
			card.AirlineLogo = c.LogoSymbolURL
		}
	}
	card.DepartureAirport = placeCode(first.Origin)
	card.ArrivalAirport = placeCode(first.Destination)
	card.DepartureTime = clockTime(first.DepartingAt)
	card.ArrivalTime = clockTime(last.ArrivingAt)
	card.Stops = stopsText(out.Segments)
	if len(first.PassengerFareDetails) > 0 && first.PassengerFareDetails[0].CabinClassMarketingName != "" {
		card.Cabin = first.PassengerFareDetails[0].CabinClassMarketingName
	}
	if first.Baggage != nil && first.Baggage.Quantity > 0 {
		card.Baggage = checkedBags(first.Baggage.Quantity)
	}

	if len(o.Slices) > 1 && len(o.Slices[1].Segments) > 0 {
		ret := o.Slices[1]
		rFirst := ret.Segments[0]
		rLast := ret.Segments[len(ret.Segments)-1]
		card.ReturnDepartureTime = clockTime(rFirst.DepartingAt)
		card.ReturnArrivalTime = clockTime(rLast.ArrivingAt)
		card.ReturnDuration = ret.Duration
		card.ReturnStops = stopsText(ret.Segments)
		card.ReturnDepartureAirport = placeCode(rFirst.Origin)
		card.ReturnArrivalAirport = placeCode(rLast.Destination)
	}
	return card
}

// ExtractFlightDisplay builds the detail view of a slice.
func ExtractFlightDisplay(s models.Slice) FlightDisplay {
	fd := FlightDisplay{
		AirlineName: unknownAirlineName,
		AirlineCode: "XX",
		Aircraft:    "Aircraft TBD",
		Duration:    FormatDuration(s.Duration),
		Cabin:       defaultCabin,
		StopDetails: "Nonstop",
	}
	if len(s.Segments) == 0 {
		return fd
	}
	first := s.Segments[0]
	last := s.Segments[len(s.Segments)-1]

	if c := first.Carrier(); c != nil {
		if c.Name != "" {
			fd.AirlineName = c.Name
		}
		if c.IATACode != "" {
			fd.AirlineCode = c.IATACode
		}
		fd.AirlineLogo = c.LogoSymbolURL
	}
	fd.FlightNumber = first.FlightNumber
	if fd.FlightNumber == "" {
		fd.FlightNumber = fd.AirlineCode
	}
	if first.Aircraft != nil && first.Aircraft.Name != "" {
		fd.Aircraft = first.Aircraft.Name
	}
	fd.Origin = airportRef(first.Origin)
	fd.Destination = airportRef(last.Destination)
	fd.DepartureTime = clockTime(first.DepartingAt)
	fd.ArrivalTime = clockTime(last.ArrivingAt)
	fd.Date = dayLabel(first.DepartingAt)

	fd.Stops = len(s.Segments) - 1
	switch {
	case fd.Stops == 1:
		fd.StopDetails = "1 stop in " + placeCode(first.Destination)
	case fd.Stops > 1:
		fd.StopDetails = fmt.Sprintf("%d stops", fd.Stops)
	}
	if len(first.PassengerFareDetails) > 0 && first.PassengerFareDetails[0].CabinClassMarketingName != "" {
		fd.Cabin = first.PassengerFareDetails[0].CabinClassMarketingName
	}
	return fd
}

// ExtractBaggageInfo reports included bags from the first segment plus the
// standard paid extras.
func ExtractBaggageInfo(o models.Offer) BaggageInfo {
	info := BaggageInfo{
		CarryOn: "1 personal item + 1 carry-on bag",
		Checked: "Not included",
		Available: []BaggageOption{
			{Type: "Extra Checked Bag", Price: "$35", Description: "Up to 50 lbs"},
			{Type: "Overweight Bag", Price: "$100", Description: "51-70 lbs"},
			{Type: "Oversized Bag", Price: "$150", Description: "Over 62 inches"},
		},
	}
	if len(o.Slices) == 0 || len(o.Slices[0].Segments) == 0 {
		return info
	}
	if b := o.Slices[0].Segments[0].Baggage; b != nil && b.Quantity > 0 {
		info.Checked = checkedBags(b.Quantity)
	}
	return info
}

// ExtractRefundPolicy reads the fare conditions. Changes are allowed unless
// the vendor says otherwise.
func ExtractRefundPolicy(o models.Offer) RefundPolicy {
	p := RefundPolicy{
		Changeable:     true,
		Details:        "Non-refundable. Changes may be permitted with fees.",
		ChangeDeadline: "Up to 2 hours before departure",
	}
	if o.Conditions == nil {
		return p
	}
	if o.Conditions.Changeable != nil {
		p.Changeable = *o.Conditions.Changeable
	}
	if o.Conditions.Refundable {
		p.Refundable = true
		p.Details = "Fully refundable within 24 hours of booking"
		p.RefundDeadline = "24 hours"
	}
	return p
}

// FormatDuration renders "PT2H30M" as "2h 30m". Empty input is "N/A";
// anything unparseable is returned unchanged.
func FormatDuration(d string) string {
	if d == "" {
		return "N/A"
	}
	h, m, ok := durationParts(d)
	switch {
	case !ok:
		return d
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return d
	}
}

// AirlineLogoURL is the CDN fallback logo for an IATA carrier code.
func AirlineLogoURL(code string) string {
	return fmt.Sprintf(airlineLogoCDN, strings.ToUpper(strings.TrimSpace(code)))
}

func stopsText(segments []models.Segment) string {
	stops := len(segments) - 1
	switch {
	case stops <= 0:
		return StopsNonStop
	case stops == 1:
		return "1 stop in " + placeCode(segments[0].Destination)
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}

func checkedBags(n int) string {
	if n == 1 {
		return "1 checked bag"
	}
	return fmt.Sprintf("%d checked bags", n)
}

// titleCabin turns "premium_economy" into "Premium Economy".
func titleCabin(cabin string) string {
	cabin = strings.TrimSpace(cabin)
	if cabin == "" {
		return defaultCabin
	}
	words := strings.Fields(strings.ReplaceAll(cabin, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func airportRef(p *models.Place) AirportRef {
	if p == nil {
		return AirportRef{}
	}
	return AirportRef{Code: p.IATACode, City: p.CityName, Name: p.Name}
}

func clockTime(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := utils.ParseTimestamp(ts)
	if err != nil {
		return "N/A"
	}
	return t.Format("3:04 PM")
}

func dayLabel(ts string) string {
	t, err := utils.ParseTimestamp(ts)
	if err != nil {
		return "N/A"
	}
	return t.Format("Mon, Jan 2")
}
