package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"mortgagemate/internal/config"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	clientID   string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Server, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		clientID: uuid.NewString(),
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-ID", c.clientID)
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// Reply sends one user message plus the current form-derived context to the
// reasoning service and returns its reply with any embedded actions.
func (c *Client) Reply(message, context string) (*ChatReply, error) {
	reqBody := ChatRequest{Message: message, Context: context}
	var resp ChatReply
	if err := c.doJSON("POST", "/chat", reqBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Estimate asks the borrowing estimate service for a borrowing-power figure
// computed from the structured borrower fields.
func (c *Client) Estimate(req EstimateRequest) (*EstimateResponse, error) {
	var resp EstimateResponse
	if err := c.doJSON("POST", "/api/estimate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Schemes fetches government schemes matching the borrower's situation.
func (c *Client) Schemes(firstTimeBuyer bool, loanPurpose string) ([]GovernmentScheme, error) {
	params := url.Values{}
	params.Set("first_time_buyer", fmt.Sprintf("%t", firstTimeBuyer))
	if loanPurpose != "" {
		params.Set("loan_purpose", loanPurpose)
	}
	var resp SchemesResponse
	if err := c.doJSON("GET", "/api/schemes?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Schemes, nil
}

// --- Generic JSON helper ---

func (c *Client) doJSON(method, path string, reqBody interface{}, result interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil && method != "GET" {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}
