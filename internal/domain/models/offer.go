package models

// Offer is a priced flight itinerary in the shape the flight vendor returns.
type Offer struct {
	ID                string             `json:"id"`
	TotalAmount       string             `json:"total_amount"`
	TotalCurrency     string             `json:"total_currency"`
	BaseAmount        string             `json:"base_amount,omitempty"`
	TaxAmount         string             `json:"tax_amount,omitempty"`
	Slices            []Slice            `json:"slices"`
	Passengers        []OfferPassenger   `json:"passengers,omitempty"`
	CabinClass        string             `json:"cabin_class,omitempty"`
	LiveMode          bool               `json:"live_mode,omitempty"`
	ExpiresAt         string             `json:"expires_at,omitempty"`
	Conditions        *Conditions        `json:"conditions,omitempty"`
	AvailableServices []AvailableService `json:"available_services,omitempty"`
}

type OfferPassenger struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Age  int    `json:"age,omitempty"`
}

type AvailableService struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	TotalAmount   string `json:"total_amount"`
	TotalCurrency string `json:"total_currency"`
}

// Conditions are the fare rules attached to an offer.
type Conditions struct {
	Refundable bool  `json:"refundable"`
	Changeable *bool `json:"changeable,omitempty"`
}

type Slice struct {
	ID          string    `json:"id,omitempty"`
	Segments    []Segment `json:"segments"`
	Duration    string    `json:"duration"`
	Origin      *Place    `json:"origin,omitempty"`
	Destination *Place    `json:"destination,omitempty"`
}

type Segment struct {
	ID                   string                `json:"id,omitempty"`
	FlightNumber         string                `json:"flight_number,omitempty"`
	Aircraft             *Aircraft             `json:"aircraft,omitempty"`
	Airline              *Carrier              `json:"airline,omitempty"`
	OperatingCarrier     *Carrier              `json:"operating_carrier,omitempty"`
	MarketingCarrier     *Carrier              `json:"marketing_carrier,omitempty"`
	DepartingAt          string                `json:"departing_at"`
	ArrivingAt           string                `json:"arriving_at"`
	Origin               *Place                `json:"origin,omitempty"`
	Destination          *Place                `json:"destination,omitempty"`
	Duration             string                `json:"duration,omitempty"`
	Baggage              *Baggage              `json:"baggage,omitempty"`
	PassengerFareDetails []PassengerFareDetail `json:"passenger_fare_details,omitempty"`
}

// Carrier picks the operating carrier, then marketing, then airline.
func (s Segment) Carrier() *Carrier {
	switch {
	case s.OperatingCarrier != nil:
		return s.OperatingCarrier
	case s.MarketingCarrier != nil:
		return s.MarketingCarrier
	default:
		return s.Airline
	}
}

type Place struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	IATACode    string  `json:"iata_code,omitempty"`
	CityName    string  `json:"city_name,omitempty"`
	CountryName string  `json:"country_name,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

type Carrier struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	IATACode      string `json:"iata_code,omitempty"`
	LogoSymbolURL string `json:"logo_symbol_url,omitempty"`
}

type Aircraft struct {
	Name     string `json:"name,omitempty"`
	IATACode string `json:"iata_code,omitempty"`
}

type Baggage struct {
	Quantity int `json:"quantity"`
}

type PassengerFareDetail struct {
	CabinClassMarketingName string `json:"cabin_class_marketing_name,omitempty"`
}

// FlightSearchRequest is what a traveller asks for.
type FlightSearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`
	Passengers    int    `json:"passengers"`
	CabinClass    string `json:"cabin_class,omitempty"`
}
