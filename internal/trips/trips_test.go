package trips

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestParseSearchDefaults(t *testing.T) {
	s, err := ParseSearch(url.Values{"origin": {"quito"}, "destination": {"ambato"}}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, OneWay, s.TripType)
	assert.Equal(t, "2025-03-10", s.DepartureDate)
	assert.Equal(t, 1, s.Passengers)
}

func TestParseSearchRejects(t *testing.T) {
	cases := []url.Values{
		{"tripType": {"multi-city"}},
		{"departureDate": {"10/03/2025"}},
		{"departureDate": {"2025-03-10"}, "returnDate": {"2025-03-09"}},
		{"passengers": {"0"}},
		{"passengers": {"two"}},
	}
	for _, q := range cases {
		_, err := ParseSearch(q, fixedNow)
		assert.Error(t, err, q.Encode())
	}
}

func TestDayRanges(t *testing.T) {
	g := NewGenerator(42, nil, clockAt(fixedNow))
	trips := g.Day("quito", "ambato", fixedNow, 3)
	require.Len(t, trips, len(DefaultStartHours))

	for i, trip := range trips {
		assert.Equal(t, "trip-"+strconv.Itoa(i), trip.ID)
		assert.Equal(t, "Quito", trip.Origin)
		assert.Equal(t, "Ambato", trip.Destination)
		assert.True(t, strings.HasPrefix(trip.DepartureTime, twoDigits(DefaultStartHours[i])+":"), trip.DepartureTime)
		assert.GreaterOrEqual(t, trip.Duration, 30)
		assert.Less(t, trip.Duration, 70)
		assert.GreaterOrEqual(t, trip.Price, 15)
		assert.Less(t, trip.Price, 35)
		assert.Equal(t, trip.Price*3, trip.TotalPrice)
		assert.GreaterOrEqual(t, trip.AvailableSeats, 5)
		assert.Less(t, trip.AvailableSeats, 30)
		assert.Contains(t, []string{"Express", "Standard"}, trip.BusType)
		assert.NotNil(t, trip.Amenities)

		dep, _ := time.Parse(clock, trip.DepartureTime)
		arr, _ := time.Parse(clock, trip.ArrivalTime)
		assert.Equal(t, trip.Duration, int(arr.Sub(dep).Minutes()))

		q, err := url.ParseQuery(strings.TrimPrefix(trip.Checkout, "/checkout?"))
		require.NoError(t, err)
		assert.Equal(t, trip.ID, q.Get("tripId"))
		assert.Equal(t, "3", q.Get("passengers"))
		assert.Equal(t, "2025-03-10", q.Get("departureDate"))
	}
}

func TestSameSeedSameTrips(t *testing.T) {
	a := NewGenerator(7, nil, clockAt(fixedNow)).Day("quito", "loja", fixedNow, 1)
	b := NewGenerator(7, nil, clockAt(fixedNow)).Day("quito", "loja", fixedNow, 1)
	assert.Equal(t, a, b)
}

func TestResultsRoundTrip(t *testing.T) {
	g := NewGenerator(1, []int{8, 20}, clockAt(fixedNow))
	res, err := g.Results(Search{
		Origin: "quito", Destination: "cuenca", TripType: RoundTrip,
		DepartureDate: "2025-03-11", ReturnDate: "2025-03-14", Passengers: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "Quito to Cuenca", res.Title)
	assert.Len(t, res.Trips, 2)
	require.Len(t, res.Returns, 2)
	assert.Equal(t, "Cuenca", res.Returns[0].Origin)

	// The strip starts at today because three days back is in the past.
	require.Len(t, res.Dates, 7)
	assert.Equal(t, "2025-03-10", res.Dates[0].Date)
	assert.True(t, res.Dates[1].Selected)
}

func TestPastDepartureStaysSelected(t *testing.T) {
	g := NewGenerator(1, []int{8}, clockAt(fixedNow))
	res, err := g.Results(Search{
		Origin: "quito", Destination: "cuenca", TripType: OneWay,
		DepartureDate: "2025-03-01", Passengers: 1,
	})
	require.NoError(t, err)

	require.Len(t, res.Dates, 7)
	assert.Equal(t, "2025-03-01", res.Dates[0].Date)
	assert.True(t, res.Dates[0].Selected)
	assert.Equal(t, "2025-03-07", res.Dates[6].Date)

	// Two days back: the strip still starts at the selected day.
	res, err = g.Results(Search{
		Origin: "quito", Destination: "cuenca", TripType: OneWay,
		DepartureDate: "2025-03-08", Passengers: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-08", res.Dates[0].Date)
	assert.True(t, res.Dates[0].Selected)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "45m", FormatDuration(45))
	assert.Equal(t, "1h 5m", FormatDuration(65))
	assert.Equal(t, "Ñandú", Capitalize("ñandú"))
	assert.Equal(t, "", Capitalize(""))
}

func twoDigits(h int) string {
	return time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15")
}
