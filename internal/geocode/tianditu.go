package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/nightdust/imgmeta/internal/logger"
	"github.com/nightdust/imgmeta/pkg/common"
)

// DefaultEndpoint is the Tianditu reverse-geocoding API.
const DefaultEndpoint = "https://api.tianditu.gov.cn/geocoder"

// Response bodies larger than this are not plausible geocoder
// answers.
const maxResponseBytes = 1 << 20

// Tianditu adapts the Tianditu geocoder request/response shapes to
// the resolver's Client interface.
type Tianditu struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewTianditu creates a Tianditu client. An empty endpoint selects
// the public API; a nil client selects http.DefaultClient.
func NewTianditu(endpoint, apiKey string, httpClient *http.Client) *Tianditu {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Tianditu{endpoint: endpoint, apiKey: apiKey, http: httpClient}
}

// Lookup performs one reverse-geocode request. The provider expects
// the coordinate as a JSON literal in the postStr query parameter.
func (t *Tianditu) Lookup(ctx context.Context, lat, lon float64) (*Response, error) {
	post := fmt.Sprintf(`{"lon":%v,"lat":%v,"ver":1}`, lon, lat)
	q := url.Values{
		"postStr": {post},
		"type":    {"geocode"},
		"tk":      {t.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, common.NewGeocodeError(fmt.Sprintf("provider returned HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		logger.Debug("unparseable geocoder payload: %.200s", string(body))
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &parsed, nil
}
