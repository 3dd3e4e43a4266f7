package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/testutils"
)

func TestHTTPDivinationProvider_Accessors(t *testing.T) {
	provider := NewHTTPDivinationProvider(
		config.DivinationProvider{Name: "Tarot", Enabled: true, Priority: 5},
		nil,
		testutils.MockLogger(),
	)

	assert.Equal(t, "Tarot", provider.GetName())
	assert.True(t, provider.IsEnabled())
	assert.Equal(t, 5, provider.GetPriority())
}

func TestParseResponses(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		body     string
		expected string
		wantErr  bool
	}{
		{"tarot card", config.KindTarot, `{"cards":[{"name":"The Fool","meaning_up":"Beginnings, innocence."},{"name":"Ignored","meaning_up":"x"}]}`, "The Fool - Beginnings, innocence.", false},
		{"tarot without cards", config.KindTarot, `{"cards":[]}`, "", true},
		{"tarot missing meaning", config.KindTarot, `{"cards":[{"name":"The Fool"}]}`, "", true},
		{"iching hexagram", config.KindIChing, `{"name":"Peace","meaning":"Harmony between heaven and earth."}`, "Peace - Harmony between heaven and earth.", false},
		{"iching missing name", config.KindIChing, `{"meaning":"x"}`, "", true},
		{"astrology horoscope", config.KindAstrology, `{"horoscope":"A quiet day brings clarity."}`, "A quiet day brings clarity.", false},
		{"astrology empty", config.KindAstrology, `{}`, "", true},
		{"malformed json", config.KindAstrology, `{"horoscope":`, "", true},
		{"unknown kind", "runes", `{}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewHTTPDivinationProvider(config.DivinationProvider{Name: tt.name, Kind: tt.kind}, nil, testutils.MockLogger())

			text, err := provider.parseResponse([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestHTTPDivinationProvider_Draw(t *testing.T) {
	server := testutils.NewMockDivinationServer()
	defer server.Close()

	configuration := testutils.MockConfigForServer(server)
	fetcher := NewFetcher(configuration, testutils.MockLogger(), nil)
	providers := NewProviderFactory(configuration, fetcher, testutils.MockLogger()).CreateProviders()
	require.Len(t, providers, 3)

	expected := map[string]string{
		"Tarot":     "The Star - Hope, faith, purpose, renewal, spirituality.",
		"IChing":    "Peace - Heaven and earth unite in harmony and growth.",
		"Astrology": "A chance meeting opens a door you thought was closed.",
	}
	for _, provider := range providers {
		draw, err := provider.Draw(context.Background())
		require.NoError(t, err, provider.GetName())
		assert.Equal(t, expected[provider.GetName()], draw.Text)
		assert.Equal(t, provider.GetName(), draw.Source)
	}
}

func TestHTTPDivinationProvider_DrawInvalidShape(t *testing.T) {
	server := testutils.NewMockDivinationServer()
	defer server.Close()
	server.SetResponse(testutils.TarotPath, http.StatusOK, `{"cards":[]}`)

	configuration := testutils.MockConfigForServer(server)
	fetcher := NewFetcher(configuration, testutils.MockLogger(), nil)
	provider := NewHTTPDivinationProvider(configuration.DivinationProviders[0], fetcher, testutils.MockLogger())

	_, err := provider.Draw(context.Background())
	require.Error(t, err)

	var serviceError *ServiceError
	require.True(t, errors.As(err, &serviceError))
	assert.Equal(t, ErrorTypeInvalidResponse, serviceError.Type)
}

func TestProviderFactory_SkipsDisabled(t *testing.T) {
	configuration := testutils.MockConfig()
	configuration.DivinationProviders[1].Enabled = false

	providers := NewProviderFactory(configuration, nil, testutils.MockLogger()).CreateProviders()

	require.Len(t, providers, 2)
	assert.Equal(t, "Tarot", providers[0].GetName())
	assert.Equal(t, "Astrology", providers[1].GetName())
}
