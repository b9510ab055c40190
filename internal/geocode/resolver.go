// Package geocode resolves decimal coordinates to human-readable
// addresses through a reverse-geocoding provider. Every outcome is a
// display string; provider and network failures never propagate as
// errors past this boundary.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/nightdust/imgmeta/internal/logger"
)

// MsgNoAPIKey is returned when no provider credential is configured;
// no network call is attempted in that case.
const MsgNoAPIKey = "geocoding disabled: no Tianditu API key configured (set geocode.api_key)"

const (
	msgTimeout      = "address lookup timed out"
	msgNotMatched   = "address not matched"
	defaultTimeout  = 10 * time.Second
	maxEmbeddedErr  = 40
	addressPrefix   = "Address: "
	failurePrefix   = "address lookup failed: "
	badResponseNote = failurePrefix + "unreadable provider response"
)

// ErrMalformedResponse marks provider responses that were not valid
// structured data.
var ErrMalformedResponse = errors.New("malformed provider response")

// Client performs a single reverse-geocoding lookup.
type Client interface {
	Lookup(ctx context.Context, lat, lon float64) (*Response, error)
}

// Response is the provider response reduced to the fields the
// resolver consumes.
type Response struct {
	Code   int            `json:"code"`
	Msg    string         `json:"msg"`
	Result *AddressResult `json:"result"`
}

// AddressResult carries either a pre-formatted address or its
// components.
type AddressResult struct {
	FormattedAddress string `json:"formatted_address"`
	Province         string `json:"province"`
	City             string `json:"city"`
	District         string `json:"district"`
	Street           string `json:"street"`
	Number           string `json:"number"`
}

// Address concatenates the non-empty components in administrative
// order when no pre-formatted address is available.
func (r *AddressResult) Address() string {
	if r == nil {
		return ""
	}
	if r.FormattedAddress != "" {
		return r.FormattedAddress
	}
	var sb strings.Builder
	for _, part := range []string{r.Province, r.City, r.District, r.Street, r.Number} {
		sb.WriteString(part)
	}
	return sb.String()
}

// Resolver validates coordinates and turns provider lookups into
// stable display strings.
type Resolver struct {
	apiKey  string
	timeout time.Duration
	client  Client
}

// NewResolver creates a resolver over the given provider client.
func NewResolver(apiKey string, timeout time.Duration, client Client) *Resolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{apiKey: apiKey, timeout: timeout, client: client}
}

// Resolve maps a coordinate to a display string. It always returns a
// usable string and never an error.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) string {
	if r.apiKey == "" {
		return MsgNoAPIKey
	}
	if lat < -90 || lat > 90 {
		return fmt.Sprintf("invalid coordinates: latitude %.6f out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Sprintf("invalid coordinates: longitude %.6f out of range", lon)
	}

	// The lookup gets its own deadline so one slow provider call
	// cannot stall the caller past the configured bound.
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Lookup(ctx, lat, lon)
	if err != nil {
		return r.classifyFailure(err)
	}

	if resp.Code != 0 {
		msg := resp.Msg
		if msg == "" {
			msg = "unknown error"
		}
		return fmt.Sprintf("%s%s (code %d)", failurePrefix, msg, resp.Code)
	}

	addr := resp.Result.Address()
	if addr == "" {
		return msgNotMatched
	}
	return addressPrefix + addr
}

// classifyFailure maps transport-level errors onto distinct display
// strings so the end user can tell failure causes apart.
func (r *Resolver) classifyFailure(err error) string {
	logger.Error("geocode lookup failed: %v", err)

	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return msgTimeout
	}
	if errors.Is(err, ErrMalformedResponse) {
		return badResponseNote
	}
	return fmt.Sprintf("%snetwork error (%s)", failurePrefix, truncate(err.Error(), maxEmbeddedErr))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
