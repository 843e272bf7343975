package navfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mfportal/src/config"
	"mfportal/src/utils/requests"
)

type NAVFeedClientI interface {
	GetLatestNAVs(ctx context.Context) (*Feed, error)
}

type NAVFeedClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
}

// NewClient creates a client for the feed configured under
// externalClients.navFeed.
func NewClient(cfg *config.Config) *NAVFeedClient {
	return &NAVFeedClient{
		API:     requests.NewExternalAPIService(30 * time.Second),
		BaseURL: strings.TrimRight(cfg.ExternalClients.NAVFeed.BaseURL, "/"),
	}
}

// GetLatestNAVs downloads and parses the daily NAV file.
func (c *NAVFeedClient) GetLatestNAVs(ctx context.Context) (*Feed, error) {
	endpoint := fmt.Sprintf("%s/NAVAll.txt", c.BaseURL)

	resp, err := c.API.Get(ctx, endpoint, "", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch nav feed: %w", err)
	}
	defer resp.Body.Close()

	feed, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse nav feed: %w", err)
	}
	return feed, nil
}
