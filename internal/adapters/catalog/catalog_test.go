package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_NormalizesFieldVariants(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		fmt.Fprint(w, `[
			{"id": "s1", "song": "New Shape", "media_url": "https://cdn/new", "primary_artists": "Artist One", "album": "Album", "duration": "210", "year": "2020"},
			{"id": "s2", "title": "Old Shape", "url": "https://cdn/old", "singers": "Artist Two"},
			{"id": "s3", "title": "Fallback Artist", "url": "https://cdn/fb", "artist": "Artist Three"}
		]`)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	songs, err := client.Search(context.Background(), "artist one new shape")

	require.NoError(t, err)
	assert.Equal(t, "artist one new shape", gotQuery)
	require.Len(t, songs, 3)

	assert.Equal(t, "New Shape", songs[0].Title)
	assert.Equal(t, "https://cdn/new", songs[0].URL)
	assert.Equal(t, "Artist One", songs[0].Artist)
	assert.Equal(t, "210", songs[0].Duration)

	assert.Equal(t, "Old Shape", songs[1].Title)
	assert.Equal(t, "https://cdn/old", songs[1].URL)
	assert.Equal(t, "Artist Two", songs[1].Artist)

	assert.Equal(t, "Artist Three", songs[2].Artist)
}

func TestSearch_DropsRecordsWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"song": "No ID", "media_url": "https://cdn/x"},
			{"id": "s1", "song": "Valid", "media_url": "https://cdn/ok"}
		]`)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	songs, err := client.Search(context.Background(), "anything")

	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "s1", songs[0].ID)
}

func TestSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	songs, err := client.Search(context.Background(), "nothing here")

	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestSearch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	_, err := client.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"unexpected": "object"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	_, err := client.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse search response")
}
