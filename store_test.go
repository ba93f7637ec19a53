package realtime

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMessageStoreSaveMessage(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		bts, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(bts, &gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := NewHTTPMessageStore(srv.URL, StaticTokenSource("tok-1"))
	err := store.SaveMessage(context.Background(), "athlete-42", "meal-7", ChatMessage{
		Content:  "looks good",
		SenderID: "trainer-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "/meals/meal-7/messages", gotPath)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "looks good", gotBody["content"])
	assert.Equal(t, "athlete-42", gotBody["athleteId"])
}

func TestHTTPMessageStoreSaveApproval(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		bts, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(bts, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPMessageStore(srv.URL, StaticTokenSource("tok-1"))
	err := store.SaveApproval(context.Background(), "athlete-42", "meal-7", false)

	require.NoError(t, err)
	assert.Equal(t, "/meals/meal-7/approvals", gotPath)
	assert.Equal(t, false, gotBody["approved"])
}

func TestHTTPMessageStoreSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	store := NewHTTPMessageStore(srv.URL, StaticTokenSource("tok-1"))
	err := store.SaveMessage(context.Background(), "a", "m", ChatMessage{Content: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestHTTPMessageStoreRequiresCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent without a credential")
	}))
	defer srv.Close()

	store := NewHTTPMessageStore(srv.URL, StaticTokenSource(""))
	err := store.SaveMessage(context.Background(), "a", "m", ChatMessage{Content: "x"})

	assert.ErrorIs(t, err, ErrMissingCredential)
}
