package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vitrine/internal/testutil"
)

func TestHTTP_FetchConfigs(t *testing.T) {
	srv := testutil.NewContentServer(t,
		`[{"key":"general_info","value":{"name":"Ana","crp":"06/1"}},{"key":"hero_image","value":{"path":"/img.jpg"}}]`,
		`[]`)

	recs, err := NewHTTP(srv.URL).FetchConfigs(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "general_info", recs[0].Key)
	assert.JSONEq(t, `{"name":"Ana","crp":"06/1"}`, string(recs[0].Value))
	assert.Equal(t, "hero_image", recs[1].Key)
}

func TestHTTP_FetchExpertise(t *testing.T) {
	srv := testutil.NewContentServer(t, `[]`,
		`[{"id":1,"title":"Ansiedade","icon":"Brain","isActive":false,"order":2},{"id":"b","title":"Casais"}]`)

	cards, err := NewHTTP(srv.URL + "/").FetchExpertise(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.EqualValues(t, "1", cards[0].ID)
	assert.False(t, cards[0].Active())
	assert.Equal(t, 2, cards[0].Rank())
	assert.EqualValues(t, "b", cards[1].ID)
	assert.True(t, cards[1].Active())
	assert.Equal(t, 0, cards[1].Rank())
}

func TestHTTP_DisablesCaching(t *testing.T) {
	srv := testutil.NewContentServer(t, `[]`, `[]`)

	_, err := NewHTTP(srv.URL, WithToken("s3cret")).FetchConfigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "no-cache", srv.LastHeader("Cache-Control"))
	assert.Equal(t, "no-cache", srv.LastHeader("Pragma"))
	assert.Equal(t, "Bearer s3cret", srv.LastHeader("Authorization"))
}

func TestHTTP_CustomPaths(t *testing.T) {
	srv := testutil.NewContentServer(t, `[]`, `[]`)

	_, err := NewHTTP(srv.URL, WithPaths("/missing", "")).FetchConfigs(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "err = %v", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, 0, srv.Hits(testutil.ConfigPath))
	assert.Equal(t, 1, srv.Hits("/missing"))
}

func TestHTTP_ServerError(t *testing.T) {
	srv := testutil.NewContentServer(t, `[]`, `[]`)
	srv.SetStatus(http.StatusBadGateway)

	_, err := NewHTTP(srv.URL).FetchExpertise(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestHTTP_MalformedBody(t *testing.T) {
	srv := testutil.NewContentServer(t, `{"not":"a list"}`, `[]`)

	_, err := NewHTTP(srv.URL).FetchConfigs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestHTTP_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL, WithTimeout(50*time.Millisecond)).FetchConfigs(context.Background())
	require.Error(t, err)
}

func TestHTTP_SkipsMalformedCards(t *testing.T) {
	srv := testutil.NewContentServer(t, `[]`,
		`[{"id":1,"title":"Ansiedade","order":"2"},{"id":2,"title":"Luto","order":1}]`)

	cards, err := NewHTTP(srv.URL).FetchExpertise(context.Background())
	require.NoError(t, err, "one bad card must not fail the whole collection")
	require.Len(t, cards, 1)
	assert.Equal(t, "Luto", cards[0].Title)
}
