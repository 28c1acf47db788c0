package search

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lynx/pkg/domain-errors"
)

// stubTransport routes requests to canned responses and records calls.
type stubTransport struct {
	indexExists bool
	creates     int
	indexed     []string
	infoStatus  int
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	respond := func(status int, body string) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Request:    req,
		}, nil
	}

	switch {
	case req.Method == http.MethodGet && req.URL.Path == "/":
		status := s.infoStatus
		if status == 0 {
			status = http.StatusOK
		}
		return respond(status, `{"cluster_name":"test"}`)
	case req.Method == http.MethodHead:
		if s.indexExists {
			return respond(http.StatusOK, "")
		}
		return respond(http.StatusNotFound, "")
	case req.Method == http.MethodPut && strings.Count(req.URL.Path, "/") == 1:
		s.creates++
		s.indexExists = true
		return respond(http.StatusOK, `{"acknowledged":true}`)
	case req.Method == http.MethodPut || req.Method == http.MethodPost:
		parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
		s.indexed = append(s.indexed, parts[len(parts)-1])
		return respond(http.StatusCreated, `{"result":"created"}`)
	}
	return respond(http.StatusNotFound, "")
}

func newStubClient(t *testing.T, transport *stubTransport) *Client {
	t.Helper()
	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{"http://stub:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return &Client{os: osClient, index: "idv_verifications", logger: slog.Default()}
}

func TestEnsureIndexIsIdempotent(t *testing.T) {
	transport := &stubTransport{}
	c := newStubClient(t, transport)
	ctx := context.Background()

	require.NoError(t, c.EnsureIndex(ctx))
	require.NoError(t, c.EnsureIndex(ctx))

	assert.Equal(t, 1, transport.creates, "second EnsureIndex call must be a no-op")
}

func TestIndexDocumentUsesProvidedID(t *testing.T) {
	transport := &stubTransport{indexExists: true}
	c := newStubClient(t, transport)

	err := c.IndexDocument(context.Background(), "ver-123", map[string]string{"status": "approved"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ver-123"}, transport.indexed)
}

func TestProbeClassifiesAuthFailureAsRetryable(t *testing.T) {
	transport := &stubTransport{infoStatus: http.StatusUnauthorized}
	c := newStubClient(t, transport)

	err := c.probe(context.Background())
	require.Error(t, err)
	// Auth-pending errors carry no internal code, so the retry predicate
	// used by New keeps retrying them.
	assert.False(t, dErrors.Is(err, dErrors.CodeInternal))

	transport.infoStatus = http.StatusInternalServerError
	err = c.probe(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal))
}
