package flights

import "strings"

type Airport struct {
	IATACode string `json:"iata_code"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

var airports = []Airport{
	{"JFK", "John F. Kennedy International Airport", "New York", "United States"},
	{"LAX", "Los Angeles International Airport", "Los Angeles", "United States"},
	{"MIA", "Miami International Airport", "Miami", "United States"},
	{"FLL", "Fort Lauderdale-Hollywood International Airport", "Fort Lauderdale", "United States"},
	{"ORD", "O'Hare International Airport", "Chicago", "United States"},
	{"ATL", "Hartsfield-Jackson Atlanta International Airport", "Atlanta", "United States"},
	{"DFW", "Dallas/Fort Worth International Airport", "Dallas", "United States"},
	{"SFO", "San Francisco International Airport", "San Francisco", "United States"},
	{"LAS", "Harry Reid International Airport", "Las Vegas", "United States"},
	{"SEA", "Seattle-Tacoma International Airport", "Seattle", "United States"},
	{"BOS", "Logan International Airport", "Boston", "United States"},
	{"STT", "Cyril E. King Airport", "St. Thomas", "U.S. Virgin Islands"},
	{"LHR", "Heathrow Airport", "London", "United Kingdom"},
	{"CDG", "Charles de Gaulle Airport", "Paris", "France"},
	{"NRT", "Narita International Airport", "Tokyo", "Japan"},
	{"DXB", "Dubai International Airport", "Dubai", "United Arab Emirates"},
	{"SYD", "Sydney Kingsford Smith Airport", "Sydney", "Australia"},
	{"YYZ", "Toronto Pearson International Airport", "Toronto", "Canada"},
	{"AMS", "Amsterdam Airport Schiphol", "Amsterdam", "Netherlands"},
	{"FRA", "Frankfurt Airport", "Frankfurt", "Germany"},
	{"SIN", "Singapore Changi Airport", "Singapore", "Singapore"},
	{"HKG", "Hong Kong International Airport", "Hong Kong", "Hong Kong"},
	{"CUN", "Cancun International Airport", "Cancun", "Mexico"},
	{"FCO", "Leonardo da Vinci-Fiumicino Airport", "Rome", "Italy"},
}

// SearchAirports matches city, name or IATA code case-insensitively.
// Queries shorter than two characters return nothing.
func SearchAirports(query string) []Airport {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Airport{}
	if len(q) < 2 {
		return out
	}
	for _, a := range airports {
		if strings.Contains(strings.ToLower(a.City), q) ||
			strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.IATACode), q) {
			out = append(out, a)
		}
	}
	return out
}

// LookupAirport returns the airport for an exact IATA code.
func LookupAirport(code string) (Airport, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, a := range airports {
		if a.IATACode == code {
			return a, true
		}
	}
	return Airport{}, false
}
