package auth_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/pkg/authsdk"
)

func TestHealthEndpoints(t *testing.T) {
	client, _ := setupAuthServer(t)

	require.NoError(t, client.Healthy(t.Context()))

	t.Run("livez", func(t *testing.T) {
		resp, err := http.Get(client.BaseURL + "/livez")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var health authsdk.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		require.Equal(t, "ok", health.Status)
		require.NotEmpty(t, health.Version)
		require.NotEmpty(t, health.Uptime)
	})

	t.Run("readyz reports database status", func(t *testing.T) {
		resp, err := http.Get(client.BaseURL + "/readyz")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var health authsdk.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		require.Equal(t, "ok", health.Status)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
	})
}
