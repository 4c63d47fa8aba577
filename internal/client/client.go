// Package client talks to the neighborhood backend: the chatbot, the
// ultra-short weather forecast, the region hierarchy and the geocoder.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dongnecli/dongne/internal/config"
	apperrors "github.com/dongnecli/dongne/internal/errors"
	"github.com/dongnecli/dongne/internal/log"
	"github.com/dongnecli/dongne/internal/region"
	"github.com/dongnecli/dongne/internal/weather"
)

// Client is the backend API client. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a client from the global config.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.File().RequestTimeout()},
		baseURL:    config.Global().BaseURL(),
	}
}

// NewWithBaseURL builds a client against an explicit base URL, for tests.
func NewWithBaseURL(base string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.File().RequestTimeout()},
		baseURL:    base,
	}
}

// Ask sends a user question, with grid coordinates when a confirmed
// location exists.
func (c *Client) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	var resp AskResponse
	if err := c.postJSON(ctx, "/chatbot/ask", req, &resp); err != nil {
		return AskResponse{}, apperrors.Wrap(err, "ask chatbot")
	}
	return resp, nil
}

// Cities fetches the administrative hierarchy and converts it to the
// region tree.
func (c *Client) Cities(ctx context.Context) (*region.Tree, error) {
	var resp CitiesResponse
	if err := c.getJSON(ctx, "/region/cities", nil, &resp); err != nil {
		return nil, apperrors.Wrap(err, "fetch region hierarchy")
	}

	tree := &region.Tree{Provinces: make([]region.Province, 0, len(resp.Cities))}
	for _, city := range resp.Cities {
		p := region.Province{Name: city.Name, Seconds: make([]region.Second, 0, len(city.Seconds))}
		for _, s := range city.Seconds {
			p.Seconds = append(p.Seconds, region.Second{Name: s.Name, Thirds: s.Thirds})
		}
		tree.Provinces = append(tree.Provinces, p)
	}
	return tree, nil
}

// Geocode resolves a confirmed address triple to its grid/coordinate
// bundle. The bundle is persisted verbatim by the caller.
func (c *Client) Geocode(ctx context.Context, req CoordsRequest) (GeoBundle, error) {
	var bundle GeoBundle
	if err := c.postJSON(ctx, "/region/coords", req, &bundle); err != nil {
		return GeoBundle{}, apperrors.Wrap(err, "geocode address")
	}
	return bundle, nil
}

// UltraShortForecast fetches raw forecast items for a grid cell. Implements
// weather.Fetcher.
func (c *Client) UltraShortForecast(ctx context.Context, nx, ny int, baseDate, baseTime string) ([]weather.Item, error) {
	params := url.Values{
		"nx":        {strconv.Itoa(nx)},
		"ny":        {strconv.Itoa(ny)},
		"base_date": {baseDate},
		"base_time": {baseTime},
	}

	var resp weather.Response
	if err := c.getJSON(ctx, "/weather/ultra-short-forecast", params, &resp); err != nil {
		return nil, apperrors.Wrap(err, "fetch forecast")
	}
	return resp.Items(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	log.Debug("backend request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little for the log; the classifier only needs the code.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Debug("backend error response", "status", resp.StatusCode, "body", string(snippet))
		return &apperrors.StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.WrapKind(err, apperrors.KindDecode, fmt.Sprintf("decode %s response", req.URL.Path))
	}
	return nil
}
