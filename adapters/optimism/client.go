// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package optimism

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Client speaks to a cross-domain messenger service over HTTP and satisfies
// MessengerClient.
type Client struct {
	baseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendMessageRequest struct {
	Target   common.Address `json:"target"`
	Message  []byte         `json:"message"`
	GasLimit uint32         `json:"gasLimit"`
}

func (c *Client) SendMessage(ctx context.Context, target common.Address, message []byte, gasLimit uint32) error {
	return c.post(ctx, "/v1/send-message", &sendMessageRequest{
		Target:   target,
		Message:  message,
		GasLimit: gasLimit,
	}, nil)
}

type xDomainSenderResponse struct {
	Sender common.Address `json:"sender"`
}

func (c *Client) XDomainMessageSender(ctx context.Context) (common.Address, error) {
	resp := new(xDomainSenderResponse)
	err := c.post(ctx, "/v1/xdomain-message-sender", struct{}{}, resp)
	if err != nil {
		return common.Address{}, err
	}

	return resp.Sender, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody interface{}, respBody interface{}) error {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, %s", resp.StatusCode, path)
	}
	if respBody == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return json.Unmarshal(body, respBody)
}
