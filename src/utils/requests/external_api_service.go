package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"mfportal/src/utils"
)

// ExternalAPIService issues requests to upstream HTTP services.
type ExternalAPIService struct {
	client *http.Client
}

// NewExternalAPIService creates a service whose requests give up after timeout.
func NewExternalAPIService(timeout time.Duration) *ExternalAPIService {
	return &ExternalAPIService{client: &http.Client{Timeout: timeout}}
}

// makeRequest builds and sends a request. Responses with a status above 299
// are closed and returned as an HTTPError carrying the upstream status.
func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint, token string, params url.Values, body interface{}) (*http.Response, error) {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, utils.NewHTTPError(resp.StatusCode, "upstream responded "+resp.Status)
	}
	return resp, nil
}

// Get makes a GET request, accepting optional query parameters.
func (s *ExternalAPIService) Get(ctx context.Context, endpoint, token string, params url.Values) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodGet, endpoint, token, params, nil)
}

// Post makes a POST request with a JSON body.
func (s *ExternalAPIService) Post(ctx context.Context, endpoint, token string, params url.Values, body interface{}) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodPost, endpoint, token, params, body)
}
