// Package search provides the OpenSearch client used to mirror verification
// documents into a queryable index.
package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"lynx/internal/platform/config"
	"lynx/internal/platform/retry"
	dErrors "lynx/pkg/domain-errors"
)

// verificationMapping declares explicit field types for the verification
// index. Document id equals the verification id.
const verificationMapping = `{
  "mappings": {
    "properties": {
      "verificationId":     {"type": "keyword"},
      "userId":             {"type": "keyword"},
      "status":             {"type": "keyword"},
      "riskLevel":          {"type": "keyword"},
      "riskScore":          {"type": "float"},
      "verificationMethod": {"type": "keyword"},
      "triggeredRules":     {"type": "keyword"},
      "submittedAt":        {"type": "date"},
      "reviewedAt":         {"type": "date"},
      "processingTime":     {"type": "integer"}
    }
  }
}`

// Client wraps an OpenSearch connection bound to a single index.
type Client struct {
	os     *opensearch.Client
	index  string
	logger *slog.Logger
}

// authPendingError marks a 401/403 from the cluster. Security plugins answer
// with auth failures while the cluster is still initializing, so these are
// retried like transport errors.
type authPendingError struct{ status int }

func (e *authPendingError) Error() string {
	return fmt.Sprintf("search cluster rejected credentials (status %d)", e.status)
}

// New connects to the search cluster, probing with a bounded fixed-delay
// retry so a briefly unavailable or still-initializing cluster does not fail
// the run.
func New(ctx context.Context, cfg config.SearchConfig, logger *slog.Logger) (*Client, error) {
	transport := &http.Transport{}
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{fmt.Sprintf("https://%s:%d", cfg.Host, cfg.Port)},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	c := &Client{os: osClient, index: cfg.Index, logger: logger}

	policy := retry.Policy{
		MaxAttempts: cfg.MaxAttempts,
		Delay:       cfg.RetryDelay,
		Retryable: func(err error) bool {
			// Connection errors and auth-pending responses both retry; any
			// other terminal response escalates immediately.
			return !dErrors.Is(err, dErrors.CodeInternal)
		},
	}

	attempt := 0
	err = policy.Do(ctx, func(ctx context.Context) error {
		attempt++
		if probeErr := c.probe(ctx); probeErr != nil {
			logger.Warn("search cluster not ready",
				"attempt", attempt,
				"max_attempts", cfg.MaxAttempts,
				"error", probeErr,
			)
			return probeErr
		}
		return nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "search cluster unreachable")
	}

	return c, nil
}

func (c *Client) probe(ctx context.Context) error {
	req := opensearchapi.InfoRequest{}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return &authPendingError{status: res.StatusCode}
	case res.IsError():
		return dErrors.Newf(dErrors.CodeInternal, "search cluster returned %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the verification index with its mapping. Creation is
// idempotent: if the index already exists the call is a no-op.
func (c *Client) EnsureIndex(ctx context.Context) error {
	existsReq := opensearchapi.IndicesExistsRequest{Index: []string{c.index}}
	res, err := existsReq.Do(ctx, c.os)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "check search index")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		c.logger.Debug("search index already exists", "index", c.index)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return dErrors.Newf(dErrors.CodeInternal, "unexpected status checking index %s: %s", c.index, res.Status())
	}

	createReq := opensearchapi.IndicesCreateRequest{
		Index: c.index,
		Body:  strings.NewReader(verificationMapping),
	}
	createRes, err := createReq.Do(ctx, c.os)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "create search index")
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return dErrors.Newf(dErrors.CodeInternal, "create index %s: %s", c.index, createRes.Status())
	}
	c.logger.Info("created search index", "index", c.index)
	return nil
}

// IndexDocument writes doc into the index under the given id, replacing any
// previous document with the same id.
func (c *Client) IndexDocument(ctx context.Context, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal search document %s: %w", id, err)
	}

	req := opensearchapi.IndexRequest{
		Index:      c.index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "index search document")
	}
	defer res.Body.Close()

	if res.IsError() {
		return dErrors.Newf(dErrors.CodeInternal, "index document %s: %s", id, res.Status())
	}
	return nil
}
