package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
	"github.com/dalfonso89/fortune-teller-service/internal/testutils"
)

func TestNew_ServesFortunes(t *testing.T) {
	server := testutils.NewMockDivinationServer()
	defer server.Close()

	application, err := New(testutils.MockConfigForServer(server), testutils.MockLogger())
	require.NoError(t, err)
	defer application.Close()

	recorder := httptest.NewRecorder()
	application.Router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/fortunes/random?category=love", nil))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var fortune models.EnhancedFortune
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &fortune))
	assert.Equal(t, models.CategoryLove, fortune.Category)
	assert.NotEmpty(t, fortune.English)
	assert.Equal(t, 3, server.TotalHits())
	assert.Equal(t, 3, application.Fetcher.CacheSize())
}

func TestNew_SearchesPlacesThroughFetcher(t *testing.T) {
	server := testutils.NewMockDivinationServer()
	defer server.Close()

	application, err := New(testutils.MockConfigForServer(server), testutils.MockLogger())
	require.NoError(t, err)
	defer application.Close()

	search := func(query string) []models.Place {
		recorder := httptest.NewRecorder()
		application.Router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/places?q="+query, nil))
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		var places []models.Place
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &places))
		return places
	}

	places := search("Paris")
	require.Len(t, places, 2)
	assert.Equal(t, "Paris, Ile-de-France, France", places[0].DisplayName)

	assert.Len(t, search("Paris"), 2)
	assert.Empty(t, search("P"))
	assert.Equal(t, 1, server.Hits(testutils.PlacesPath))
}

func TestNew_RejectsUnknownDefaultTheme(t *testing.T) {
	configuration := testutils.MockConfig()
	configuration.DefaultTheme = "neon"

	_, err := New(configuration, testutils.MockLogger())
	assert.Error(t, err)
}

func TestClose_IsIdempotent(t *testing.T) {
	application, err := New(testutils.MockConfig(), testutils.MockLogger())
	require.NoError(t, err)

	assert.NoError(t, application.Close())
	assert.NoError(t, application.Close())
}
