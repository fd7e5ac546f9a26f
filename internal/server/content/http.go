package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avdenisov/roost/internal/common"
)

// HTTPResolver resolves temporary upload handles by POSTing them to the
// content-addressing service. Any transport or non-2xx failure surfaces as
// ErrUnavailable, never as ErrNotFound.
type HTTPResolver struct {
	endpoint  string
	cdnPrefix string
	client    *http.Client
}

func NewHTTPResolver(endpoint, cdnPrefix string) *HTTPResolver {
	return &HTTPResolver{
		endpoint:  endpoint,
		cdnPrefix: strings.TrimSuffix(cdnPrefix, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type resolveRequest struct {
	TmpID string `json:"tmp_id"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, tmpID string) (*Resolved, error) {
	body, err := json.Marshal(resolveRequest{TmpID: tmpID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: content service: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: content service returned %d", common.ErrUnavailable, resp.StatusCode)
	}

	resolved := &Resolved{}
	if err := json.NewDecoder(resp.Body).Decode(resolved); err != nil {
		return nil, fmt.Errorf("%w: content service: %v", common.ErrUnavailable, err)
	}

	resolved.Prefix = r.cdnPrefix + "/" + resolved.TxID
	return resolved, nil
}
