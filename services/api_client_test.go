package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kings-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *RegistryClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRegistryClient(server.URL, 2*time.Second)
}

func TestRegistryClient_ListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/users", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"_id":"a1","firstName":"Ada","status":"approved"},{"_id":"b2","firstName":"Ben"}]`))
		})

		records, err := client.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "a1", records[0].ID)
		assert.Equal(t, models.StatusApproved, records[0].Status)
		assert.Equal(t, models.StatusPending, records[1].DisplayStatus())
	})

	t.Run("EmptyArray", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})

		records, err := client.ListUsers(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("ServerError", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.ListUsers(ctx)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, KindStatus, apiErr.Kind)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})

	t.Run("Malformed", func(t *testing.T) {
		for name, body := range map[string]string{
			"NotJSON":   `<html>oops</html>`,
			"Object":    `{"users":[]}`,
			"Null":      `null`,
			"MissingID": `[{"firstName":"Ada"}]`,
		} {
			t.Run(name, func(t *testing.T) {
				client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(body))
				})

				_, err := client.ListUsers(ctx)
				assert.Equal(t, KindMalformed, KindOf(err))
			})
		}
	})

	t.Run("Transport", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewRegistryClient(server.URL, time.Second)

		_, err := client.ListUsers(ctx)
		assert.Equal(t, KindTransport, KindOf(err))
	})
}

func TestRegistryClient_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsPayload", func(t *testing.T) {
		var got map[string]string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/users/update-status", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, client.UpdateStatus(ctx, "a1", models.StatusRejected))
		assert.Equal(t, map[string]string{"userId": "a1", "status": "rejected"}, got)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request must not be sent")
		})

		err := client.UpdateStatus(ctx, "a1", models.StatusPending)
		assert.Equal(t, KindInvalid, KindOf(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.UpdateStatus(ctx, "a1", models.StatusApproved)
		assert.Equal(t, KindStatus, KindOf(err))
		assert.Contains(t, err.Error(), "404")
	})
}

func TestRegistryClient_DeleteUser(t *testing.T) {
	ctx := context.Background()

	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		path = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteUser(ctx, "a1"))
	assert.Equal(t, "/users/a1", path)

	require.NoError(t, client.DeleteUser(ctx, "a/b"))
	assert.Equal(t, "/users/a%2Fb", path)

	assert.Equal(t, KindInvalid, KindOf(client.DeleteUser(ctx, "")))
}

func TestRegistryClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})
	client := NewRegistryClient(server.URL, 50*time.Millisecond)

	_, err := client.ListUsers(context.Background())
	assert.Equal(t, KindTransport, KindOf(err))
}
