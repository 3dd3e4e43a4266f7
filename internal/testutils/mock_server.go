package testutils

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// Paths served by MockDivinationServer
const (
	TarotPath     = "/api/v1/cards/random"
	IChingPath    = "/api/hexagrams/random"
	AstrologyPath = "/horoscope/today"
	PlacesPath    = "/search"
)

type mockResponse struct {
	status int
	body   string
}

// MockDivinationServer serves canned tarot, I Ching, astrology and place
// search responses and counts the requests per path
type MockDivinationServer struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string]mockResponse
	hits      map[string]int
	queries   map[string]string
}

// NewMockDivinationServer creates a server answering every path with a valid reading
func NewMockDivinationServer() *MockDivinationServer {
	mock := &MockDivinationServer{
		responses: make(map[string]mockResponse),
		hits:      make(map[string]int),
		queries:   make(map[string]string),
	}
	mock.SetupDefaultResponses()

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

// SetupDefaultResponses sets up one valid reading per provider
func (m *MockDivinationServer) SetupDefaultResponses() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[TarotPath] = mockResponse{http.StatusOK, `{"nhits":1,"cards":[{"name":"The Star","meaning_up":"Hope, faith, purpose, renewal, spirituality."}]}`}
	m.responses[IChingPath] = mockResponse{http.StatusOK, `{"number":11,"name":"Peace","meaning":"Heaven and earth unite in harmony and growth."}`}
	m.responses[AstrologyPath] = mockResponse{http.StatusOK, `{"horoscope":"A chance meeting opens a door you thought was closed."}`}
	m.responses[PlacesPath] = mockResponse{http.StatusOK, `[{"place_id":88,"display_name":"Paris, Ile-de-France, France","lat":"48.8588897","lon":"2.3200410"},{"place_id":89,"display_name":"Paris, Lamar County, Texas, United States","lat":"33.6617962","lon":"-95.5555130"}]`}
}

// SetResponse replaces the response for path
func (m *MockDivinationServer) SetResponse(path string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = mockResponse{status: status, body: body}
}

// FailAll makes every path answer 500
func (m *MockDivinationServer) FailAll() {
	for _, path := range []string{TarotPath, IChingPath, AstrologyPath} {
		m.SetResponse(path, http.StatusInternalServerError, `{"error":"upstream down"}`)
	}
}

// Hits returns how many requests reached path
func (m *MockDivinationServer) Hits(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[path]
}

// LastQuery returns the raw query string of the latest request to path
func (m *MockDivinationServer) LastQuery(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries[path]
}

// TotalHits returns how many requests reached the server
func (m *MockDivinationServer) TotalHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, count := range m.hits {
		total += count
	}
	return total
}

func (m *MockDivinationServer) handler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.mu.Lock()
	m.hits[r.URL.Path]++
	m.queries[r.URL.Path] = r.URL.RawQuery
	response, found := m.responses[r.URL.Path]
	m.mu.Unlock()

	if !found {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.status)
	_, _ = w.Write([]byte(response.body))
}

// URL returns the mock server URL
func (m *MockDivinationServer) URL() string {
	return m.server.URL
}

// Close closes the mock server
func (m *MockDivinationServer) Close() {
	m.server.Close()
}
