package entropy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_EmptyKey(t *testing.T) {
	c := NewClient("")
	assert.Nil(t, c)
	assert.False(t, c.Enabled())
	assert.NotZero(t, c.Seed())
}

func TestResolveSeed_Explicit(t *testing.T) {
	assert.Equal(t, int64(42), ResolveSeed(42, nil))
	assert.Equal(t, int64(-3), ResolveSeed(-3, NewClient("key")))
}

func TestResolveSeed_ZeroFallsBackToCrypto(t *testing.T) {
	for i := 0; i < 10; i++ {
		s := ResolveSeed(0, nil)
		assert.Positive(t, s)
	}
}

func TestClient_SeedFromPool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params struct {
				APIKey string `json:"apiKey"`
			} `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "generateIntegers", req.Method)
		assert.Equal(t, "secret", req.Params.APIKey)
		w.Write([]byte(`{"result":{"random":{"data":[11,0,22]}}}`))
	}))
	defer srv.Close()

	c := NewClient("secret")
	c.endpoint = srv.URL

	assert.Equal(t, int64(11), ResolveSeed(0, c))
	assert.Equal(t, int64(22), c.Seed())
}

func TestClient_APIErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient("secret")
	c.endpoint = srv.URL
	assert.Positive(t, c.Seed())
}
