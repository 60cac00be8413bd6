package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oracle error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

type ownerResponse struct {
	AssetID string `json:"asset_id"`
	Owner   string `json:"owner"`
}

// QueryOwner fetches the current holder of assetID from the asset registry.
func (c *Client) QueryOwner(ctx context.Context, assetID string) (*OwnerReply, error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, fmt.Errorf("asset_id is required")
	}
	body, err := c.doRequest(ctx, "/assets/"+url.PathEscape(assetID)+"/owner")
	if err != nil {
		return nil, err
	}
	var decoded ownerResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode owner response: %w", err)
	}
	if strings.TrimSpace(decoded.Owner) == "" {
		return nil, fmt.Errorf("oracle reported no owner for asset %s", assetID)
	}
	return &OwnerReply{
		AssetID: decoded.AssetID,
		Owner:   decoded.Owner,
		Raw:     body,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
