package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"zerostour/internal/domain/vehicletype"
	"zerostour/internal/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu     sync.Mutex
	types  []vehicletype.VehicleType
	nextID int64
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/vehicle-type-report":
		var req resource.PagedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		from := (req.PageNumber - 1) * req.PageSize
		items := []vehicletype.VehicleType{}
		if from < len(f.types) {
			items = f.types[from:min(from+req.PageSize, len(f.types))]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Items":        items,
			"PageNumber":   req.PageNumber,
			"PageSize":     req.PageSize,
			"TotalRecords": len(f.types),
			"TotalPages":   resource.TotalPagesFor(len(f.types), req.PageSize),
		})
	case r.URL.Path == "/vehicle-type-create":
		var d vehicletype.Draft
		_ = json.NewDecoder(r.Body).Decode(&d)
		f.nextID++
		f.types = append([]vehicletype.VehicleType{{VehicleTypeId: f.nextID, Name: d.Name, Quantity: d.Quantity, Status: true}}, f.types...)
		_, _ = w.Write([]byte(strconv.FormatInt(f.nextID, 10)))
	case strings.HasPrefix(r.URL.Path, "/vehicle-type-delete/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/vehicle-type-delete/"), 10, 64)
		for i, t := range f.types {
			if t.VehicleTypeId == id {
				f.types = append(f.types[:i], f.types[i+1:]...)
				break
			}
		}
		_, _ = w.Write([]byte(`true`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.types)
}

func newFakeAPI(t *testing.T, n int) (*fakeAPI, string) {
	t.Helper()
	api := &fakeAPI{}
	for i := 0; i < n; i++ {
		api.nextID++
		api.types = append(api.types, vehicletype.VehicleType{VehicleTypeId: api.nextID, Name: "Bus " + strconv.Itoa(i+1), Quantity: 40})
	}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv.URL
}

// run executes zerosctl with args and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListPrintsTable(t *testing.T) {
	_, url := newFakeAPI(t, 10)

	out, err := run(t, "", "list", "vehicle-types", "--api-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "Nombre")
	assert.Contains(t, out, "Bus 8")
	assert.NotContains(t, out, "Bus 9")
	assert.Contains(t, out, "1–8 of 10  page [1] 2")

	out, err = run(t, "", "list", "vehicle-types", "--api-url", url, "--page", "2", "--page-size", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Bus 10")
	assert.Contains(t, out, "6–10 of 10  page 1 [2]")
}

func TestListPastLastPage(t *testing.T) {
	_, url := newFakeAPI(t, 20)

	out, err := run(t, "", "list", "vehicle-types", "--api-url", url, "--page", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Bus 17")
	assert.Contains(t, out, "Bus 20")
	assert.Contains(t, out, "17–20 of 20  page 1 2 [3]")

	// The record is looked up on the page the list settled on.
	out, err = run(t, "", "delete", "vehicle-types", "20", "--api-url", url, "--page", "9", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted.")
}

func TestListUnknownScreen(t *testing.T) {
	_, url := newFakeAPI(t, 0)
	_, err := run(t, "", "list", "drivers", "--api-url", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known: services, vehicle-types, vehicles")
}

func TestMissingAPIURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	_, err := run(t, "", "list", "vehicles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestAdd(t *testing.T) {
	api, url := newFakeAPI(t, 2)

	out, err := run(t, "", "add", "vehicle-types", "--api-url", url, "--set", "name=Minibus", "--set", "quantity=20")
	require.NoError(t, err)
	assert.Contains(t, out, "Created.")
	assert.Contains(t, out, "Minibus")
	assert.Equal(t, 3, api.count())

	_, err = run(t, "", "add", "vehicle-types", "--api-url", url, "--set", "name=", "--set", "quantity=20")
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())

	_, err = run(t, "", "add", "vehicle-types", "--api-url", url, "--set", "quantity")
	require.Error(t, err)
	assert.Equal(t, 3, api.count())
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	api, url := newFakeAPI(t, 3)

	out, err := run(t, "n\n", "delete", "vehicle-types", "2", "--api-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "Delete vehicle-type 2? [y/N]")
	assert.Contains(t, out, "Cancelled.")
	assert.Equal(t, 3, api.count())

	out, err = run(t, "y\n", "delete", "vehicle-types", "2", "--api-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted.")
	assert.Equal(t, 2, api.count())

	out, err = run(t, "", "delete", "vehicle-types", "3", "--api-url", url, "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")
	assert.Equal(t, 1, api.count())
}

func TestEditRecordNotOnPage(t *testing.T) {
	_, url := newFakeAPI(t, 10)
	_, err := run(t, "", "edit", "vehicle-types", "10", "--api-url", url, "--set", "quantity=30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--page")
}

func TestTripsSearch(t *testing.T) {
	out, err := run(t, "", "trips", "search", "--origin", "quito", "--destination", "cuenca",
		"--date", "2026-03-10", "--passengers", "2", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Quito to Cuenca · 2026-03-10 · 2 passenger(s)")
	assert.Contains(t, out, "trip-0")
	assert.Contains(t, out, "trip-6")

	_, err = run(t, "", "trips", "search", "--date", "10/03/2026")
	assert.Error(t, err)
}

func TestRenderLinks(t *testing.T) {
	assert.Equal(t, "-", renderLinks(nil))
}
