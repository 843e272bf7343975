package navfeed

import (
	"bytes"
	"context"

	"mfportal/src/utils"
)

// MockClient replays a NAV file saved on disk instead of calling the feed.
type MockClient struct {
	filePath string
}

func NewMockClient(filePath string) *MockClient {
	return &MockClient{filePath: filePath}
}

func (c *MockClient) GetLatestNAVs(_ context.Context) (*Feed, error) {
	responseBytes, err := utils.ReadResponseFromFile(c.filePath)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(responseBytes))
}
