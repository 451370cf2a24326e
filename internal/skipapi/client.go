package skipapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Makepad-fr/skips/internal/model"
	"github.com/pkg/errors"
)

// DefaultBaseURL is the production skip-hire API origin.
const DefaultBaseURL = "https://app.wewantwaste.co.uk/api"

// Client fetches the skips available at a location.
type Client interface {
	FetchSkipsByLocation(ctx context.Context, postcode, area string) ([]model.Skip, error)
}

type client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client talking to baseURL. A nil httpClient uses DefaultHTTPClient.
func New(baseURL string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *client) FetchSkipsByLocation(ctx context.Context, postcode, area string) ([]model.Skip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/skips/by-location", nil)
	if err != nil {
		return nil, errors.Wrapf(ErrFetch, "build request: %v", err)
	}
	q := req.URL.Query()
	q.Set("postcode", postcode)
	q.Set("area", area)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrFetch, "get skips: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, errors.Wrapf(ErrFetch, "skips endpoint returned %s", resp.Status)
	}

	var records []skipRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, errors.Wrapf(ErrFetch, "decode skips: %v", err)
	}
	return toSkips(records)
}
