package trips

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	dateLayout = "2006-01-02"
	clock      = "15:04"

	OneWay    = "one-way"
	RoundTrip = "round-trip"
)

// DefaultStartHours are the departure hours of a generated day
var DefaultStartHours = []int{6, 8, 10, 12, 14, 16, 18}

// Search is a customer's trip query
type Search struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	TripType      string `json:"tripType"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Passengers    int    `json:"passengers"`
}

// Trip is one bookable departure
type Trip struct {
	ID             string   `json:"id"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	DepartureTime  string   `json:"departureTime"`
	ArrivalTime    string   `json:"arrivalTime"`
	Duration       int      `json:"duration"`
	DurationLabel  string   `json:"durationLabel"`
	Price          int      `json:"price"`
	TotalPrice     int      `json:"totalPrice"`
	AvailableSeats int      `json:"availableSeats"`
	BusType        string   `json:"busType"`
	Amenities      []string `json:"amenities"`
	Checkout       string   `json:"checkout"`
}

// Results is what the results page renders
type Results struct {
	Search  Search `json:"search"`
	Title   string `json:"title"`
	Trips   []Trip `json:"trips"`
	Returns []Trip `json:"returns,omitempty"`
	Dates   []Day  `json:"dates"`
}

// Day is one entry of the date strip above the results
type Day struct {
	Date     string `json:"date"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// ParseSearch reads a search from query parameters. A missing departure
// date means today according to now.
func ParseSearch(q url.Values, now time.Time) (Search, error) {
	s := Search{
		Origin:        strings.TrimSpace(q.Get("origin")),
		Destination:   strings.TrimSpace(q.Get("destination")),
		TripType:      q.Get("tripType"),
		DepartureDate: q.Get("departureDate"),
		ReturnDate:    q.Get("returnDate"),
		Passengers:    1,
	}
	if s.TripType == "" {
		s.TripType = OneWay
	}
	if s.TripType != OneWay && s.TripType != RoundTrip {
		return s, fmt.Errorf("tripType must be %s or %s", OneWay, RoundTrip)
	}
	if s.DepartureDate == "" {
		s.DepartureDate = now.Format(dateLayout)
	}
	departure, err := time.Parse(dateLayout, s.DepartureDate)
	if err != nil {
		return s, fmt.Errorf("departureDate must be yyyy-MM-dd")
	}
	if s.ReturnDate != "" {
		ret, err := time.Parse(dateLayout, s.ReturnDate)
		if err != nil {
			return s, fmt.Errorf("returnDate must be yyyy-MM-dd")
		}
		if ret.Before(departure) {
			return s, fmt.Errorf("returnDate is before departureDate")
		}
	}
	if p := q.Get("passengers"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return s, fmt.Errorf("passengers must be a positive number")
		}
		s.Passengers = n
	}
	return s, nil
}

// Generator fabricates trips for a search. It stands in for a schedule
// backend, so the random source and clock are supplied by the caller.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	startHours []int
	now        func() time.Time
}

// NewGenerator creates a generator. A zero seed draws one from the clock.
func NewGenerator(seed uint64, startHours []int, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	if seed == 0 {
		seed = uint64(now().UnixNano())
	}
	if len(startHours) == 0 {
		startHours = DefaultStartHours
	}
	return &Generator{
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
		startHours: append([]int(nil), startHours...),
		now:        now,
	}
}

// Now is the generator's clock
func (g *Generator) Now() time.Time {
	return g.now()
}

// Results generates the page for s.
func (g *Generator) Results(s Search) (Results, error) {
	departure, err := time.Parse(dateLayout, s.DepartureDate)
	if err != nil {
		return Results{}, fmt.Errorf("departureDate: %w", err)
	}
	res := Results{
		Search: s,
		Title:  Capitalize(s.Origin) + " to " + Capitalize(s.Destination),
		Trips:  g.Day(s.Origin, s.Destination, departure, s.Passengers),
		Dates:  g.dates(departure),
	}
	if s.TripType == RoundTrip && s.ReturnDate != "" {
		ret, err := time.Parse(dateLayout, s.ReturnDate)
		if err != nil {
			return Results{}, fmt.Errorf("returnDate: %w", err)
		}
		res.Returns = g.Day(s.Destination, s.Origin, ret, s.Passengers)
	}
	return res, nil
}

// Day generates one trip per start hour on date.
func (g *Generator) Day(origin, destination string, date time.Time, passengers int) []Trip {
	g.mu.Lock()
	defer g.mu.Unlock()

	if passengers < 1 {
		passengers = 1
	}
	out := make([]Trip, 0, len(g.startHours))
	for i, hour := range g.startHours {
		dep := time.Date(date.Year(), date.Month(), date.Day(), hour, g.rng.IntN(60), 0, 0, date.Location())
		duration := 30 + g.rng.IntN(40)
		arr := dep.Add(time.Duration(duration) * time.Minute)

		amenities := []string{}
		if g.rng.Float64() > 0.3 {
			amenities = append(amenities, "wifi")
		}
		if g.rng.Float64() > 0.5 {
			amenities = append(amenities, "usb")
		}
		if g.rng.Float64() > 0.7 {
			amenities = append(amenities, "refreshments")
		}

		price := 15 + g.rng.IntN(20)
		busType := "Standard"
		if g.rng.Float64() > 0.5 {
			busType = "Express"
		}
		t := Trip{
			ID:             "trip-" + strconv.Itoa(i),
			Origin:         Capitalize(origin),
			Destination:    Capitalize(destination),
			DepartureTime:  dep.Format(clock),
			ArrivalTime:    arr.Format(clock),
			Duration:       duration,
			DurationLabel:  FormatDuration(duration),
			Price:          price,
			TotalPrice:     price * passengers,
			AvailableSeats: 5 + g.rng.IntN(25),
			BusType:        busType,
			Amenities:      amenities,
		}
		t.Checkout = checkoutQuery(t, date.Format(dateLayout), passengers)
		out = append(out, t)
	}
	return out
}

// dates is the strip of days around the selected one. It does not reach
// before today, except to start at a selected day that is already past.
func (g *Generator) dates(selected time.Time) []Day {
	today := g.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, selected.Location())
	start := selected.AddDate(0, 0, -3)
	if start.Before(today) {
		start = today
		if selected.Before(today) {
			start = selected
		}
	}
	days := make([]Day, 0, 7)
	for i := range 7 {
		d := start.AddDate(0, 0, i)
		days = append(days, Day{
			Date:     d.Format(dateLayout),
			Label:    d.Format("Mon 2 Jan"),
			Selected: d.Equal(selected),
		})
	}
	return days
}

func checkoutQuery(t Trip, date string, passengers int) string {
	q := url.Values{}
	q.Set("tripId", t.ID)
	q.Set("origin", t.Origin)
	q.Set("destination", t.Destination)
	q.Set("departureDate", date)
	q.Set("departureTime", t.DepartureTime)
	q.Set("arrivalTime", t.ArrivalTime)
	q.Set("duration", strconv.Itoa(t.Duration))
	q.Set("price", strconv.Itoa(t.Price))
	q.Set("passengers", strconv.Itoa(passengers))
	q.Set("busType", t.BusType)
	return "/checkout?" + q.Encode()
}

// Capitalize upper-cases the first letter of a place name
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatDuration renders minutes as "1h 5m" or "45m"
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
