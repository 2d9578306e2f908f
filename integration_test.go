package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"zerostour/internal/catalog"
	"zerostour/internal/config"
	"zerostour/internal/crud"
	"zerostour/internal/domain/audit"
	httpx "zerostour/internal/http"
	"zerostour/internal/resource"
	auditsvc "zerostour/internal/services/audit"
	"zerostour/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAudit stores what the worker flushes
type memAudit struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (m *memAudit) SaveBatch(_ context.Context, entries []*audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memAudit) FindRecent(_ context.Context, resource string, limit, offset int) ([]*audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*audit.Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if resource == "" || m.entries[i].Resource == resource {
			out = append(out, m.entries[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

func (m *memAudit) Count(ctx context.Context, resource string) (int, error) {
	all, err := m.FindRecent(ctx, resource, 1<<30, 0)
	return len(all), err
}

func (m *memAudit) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// cityAPI serves services for the dashboard; only creation is needed.
func cityAPI(t *testing.T) (*httptest.Server, *[]map[string]any) {
	var (
		mu      sync.Mutex
		created []map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/service-create":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			created = append(created, body)
			_, _ = w.Write([]byte(strconv.Itoa(100 + len(created))))
		case "/service-report":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"Items": []any{}, "PageNumber": 1, "PageSize": 8, "TotalRecords": 0, "TotalPages": 0,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &created
}

// TestDashboardIntegration wires config, screens, observers, the audit
// worker and the router the way cmd/web does.
func TestDashboardIntegration(t *testing.T) {
	api, created := cityAPI(t)
	cfg := config.Cfg{
		App:       config.AppCfg{Env: "test", Port: "0"},
		API:       config.APICfg{BaseURL: api.URL, TimeoutSec: 5},
		Sec:       config.SecurityCfg{AdminToken: "token"},
		Dashboard: config.DashboardCfg{DefaultPageSize: 8, SortBy: "fecha", SortDescending: true},
		Roles:     config.RolesCfg{Current: "admin", Menu: config.DefaultMenuRoles()},
	}

	repo := &memAudit{}
	worker := auditsvc.NewWorker(repo, 10*time.Millisecond, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	registry := catalog.NewDashboard(cfg, resource.NewClient(cfg.API),
		crud.Notify,
		crud.CountMutations,
		crud.Audit(worker),
	)
	router := httpx.NewRouter(httpx.RouterDependencies{
		Config:       cfg,
		Registry:     registry,
		Sessions:     session.NewMemoryStore(time.Hour),
		AuditService: auditsvc.NewService(repo),
	})

	body := `{"name":"Quito - Cuenca","origenId":1,"destinationId":2,"estimatedDuration":"08:30","departureHour":"06:00","isHoliday":false,"vehicleId":4}`
	req := httptest.NewRequest(http.MethodPost, "/admin/services/", strings.NewReader(body))
	req.Header.Set("X-Admin-Token", "token")
	req.Header.Set("X-Actor", "maria")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, *created, 1)
	assert.Equal(t, "Quito - Cuenca", (*created)[0]["name"])

	require.Eventually(t, func() bool { return repo.len() == 1 }, time.Second, 5*time.Millisecond)

	req = httptest.NewRequest(http.MethodGet, "/admin/audit?resource=service", nil)
	req.Header.Set("X-Admin-Token", "token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page auditsvc.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	entry := page.Entries[0]
	assert.Equal(t, "service", entry.Resource)
	assert.Equal(t, audit.ActionCreate, entry.Action)
	assert.Equal(t, int64(101), entry.RecordID)
	assert.Equal(t, "maria", entry.Actor)
	assert.NotEmpty(t, entry.CorrelationID)
}
