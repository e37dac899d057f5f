package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailJSON = `[
	[1234, "Æblekage", "Gammeldags æblekage", "http://img/1234.jpg"],
	["500", "g", "æbler"],
	[1.5, "dl", "fløde"],
	["", "", "makroner"],
	[0, "Kog æblerne.\nLæg lagvis.\r\n\nPynt med fløde."]
]`

func TestDecodeSummaries(t *testing.T) {
	raw := []byte(`[[17, "Boller", "http://img/17.jpg", "-"], ["18", "Lagkage", "http://img/18.jpg", "45 kr"]]`)

	got, err := DecodeSummaries(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Summary{ID: "17", Title: "Boller", ImageURL: "http://img/17.jpg", Price: "-"}, got[0])
	assert.False(t, got[0].HasPrice())
	assert.True(t, got[1].HasPrice())
}

func TestDecodeSummariesRejectsShortRows(t *testing.T) {
	_, err := DecodeSummaries([]byte(`[["17", "Boller"]]`))
	assert.True(t, errors.Is(err, ErrUnexpectedShape))

	_, err = DecodeSummaries([]byte(`{"id": 1}`))
	assert.True(t, errors.Is(err, ErrUnexpectedShape))
}

func TestDecodeDetail(t *testing.T) {
	d, err := DecodeDetail([]byte(detailJSON))
	require.NoError(t, err)

	assert.Equal(t, "1234", d.ID)
	assert.Equal(t, "Æblekage", d.Title)
	assert.Equal(t, "Gammeldags æblekage", d.Description)
	require.Len(t, d.Ingredients, 3)
	assert.Equal(t, Ingredient{Amount: "1.5", Unit: "dl", Name: "fløde"}, d.Ingredients[1])
	assert.Equal(t, []string{"Kog æblerne.", "Læg lagvis.", "Pynt med fløde."}, d.Instructions)
}

func TestDecodeDetailRejectsShortPayload(t *testing.T) {
	_, err := DecodeDetail([]byte(`[["1", "only general"]]`))
	assert.True(t, errors.Is(err, ErrUnexpectedShape))
}

func TestDetailToRecipe(t *testing.T) {
	d, err := DecodeDetail([]byte(detailJSON))
	require.NoError(t, err)

	r := d.ToRecipe()
	assert.Equal(t, "Æblekage", r.Title)
	assert.Equal(t, "Aftensmad", r.Category)
	require.Len(t, r.Ingredients, 3)
	require.NotNil(t, r.Ingredients[0].Amount)
	assert.Equal(t, 500.0, *r.Ingredients[0].Amount)
	assert.Nil(t, r.Ingredients[2].Amount)
	assert.Len(t, r.Instructions, 3)
}

func TestClientUsesProxyPrefix(t *testing.T) {
	var gotURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.RequestURI()
		_, _ = w.Write([]byte(`[["9", "Suppe", "http://img/9.jpg", "-"]]`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: "/svc", ProxyURL: server.URL, RatePerSec: 100, Timeout: time.Second})
	got, err := c.Search(context.Background(), "porrer")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/svc/GetRecipesByFreeText/0/porrer", gotURL)
}

func TestClientRecipe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GetRecipe/0/1234/4", r.URL.Path)
		_, _ = w.Write([]byte(detailJSON))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, RatePerSec: 100})
	d, err := c.Recipe(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, "Æblekage", d.Title)
}

func TestClientNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL, RatePerSec: 100}).Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
