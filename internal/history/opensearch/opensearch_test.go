package opensearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loykin/vigil/internal/history"
)

func TestSendIndexesDocument(t *testing.T) {
	var gotPath string
	var gotDoc map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotDoc)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := New(srv.URL+"/", "watchdog-history")
	err := s.Send(context.Background(), history.Event{
		Type:       history.EventTimeout,
		OccurredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Info:       "job",
		TimeoutMs:  1000,
		ElapsedMs:  1500,
		Delivered:  true,
	})
	require.NoError(t, err)
	require.Equal(t, "/watchdog-history/_doc", gotPath)
	require.Equal(t, "timeout", gotDoc["type"])
	require.Equal(t, "job", gotDoc["info"])
	require.Equal(t, true, gotDoc["delivered"])
}

func TestSendReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := New(srv.URL, "idx")
	err := s.Send(context.Background(), history.Event{Type: history.EventStarted, OccurredAt: time.Now()})
	require.Error(t, err)
}
