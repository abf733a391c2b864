// Package leadsource provides the client for the external property/contact
// catalog the dispatcher pulls candidate leads from.
package leadsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dialer_backend/platform/config"
)

// Phone is a candidate number on a lead, with its do-not-call marker.
type Phone struct {
	Number    string `json:"number"`
	DoNotCall bool   `json:"do_not_call"`
}

// Contact is a person attached to a lead besides the owner.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Owner carries the owner's phone list.
type Owner struct {
	Name   string  `json:"name"`
	Phones []Phone `json:"phones"`
}

// Property is a read-only view of one catalog lead record.
type Property struct {
	ID       string
	Address  string
	Tags     []string
	Owner    *Owner
	Contacts []Contact
}

type propertyAttributes struct {
	Address  string    `json:"address"`
	Tags     []string  `json:"tags"`
	Owner    *Owner    `json:"owner"`
	Contacts []Contact `json:"contacts"`
}

type propertyEntry struct {
	ID         string             `json:"id"`
	Attributes propertyAttributes `json:"attributes"`
}

type listEnvelope struct {
	Data []propertyEntry `json:"data"`
}

// Client lists catalog properties filtered to a follow-up tag, with owner,
// phone, and contact relations included.
type Client struct {
	baseURL string
	apiKey  string
	tag     string
	http    *http.Client
}

// NewClient creates a catalog client from config. Returns nil when no API
// key is configured; callers treat a nil client as a disabled feature.
func NewClient(cfg config.LeadSourceConfig) *Client {
	if !cfg.IsLeadSourceEnabled() {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetLeadSourceBaseURL(), "/"),
		apiKey:  cfg.GetLeadSourceAPIKey(),
		tag:     cfg.GetLeadSourceTag(),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ListProperties fetches one page of candidate leads. Any transport, auth,
// or parse failure is returned as-is; the dispatcher treats it as structural
// and aborts the pass.
func (c *Client) ListProperties(ctx context.Context, page, pageSize int) ([]Property, error) {
	params := url.Values{}
	params.Set("filter[tags]", c.tag)
	params.Set("include", "owner,phones,contacts")
	params.Set("page[number]", strconv.Itoa(page))
	params.Set("page[size]", strconv.Itoa(pageSize))

	reqURL := fmt.Sprintf("%s/properties/?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lead source request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("lead source returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode lead source response: %w", err)
	}

	properties := make([]Property, 0, len(envelope.Data))
	for _, entry := range envelope.Data {
		properties = append(properties, Property{
			ID:       entry.ID,
			Address:  entry.Attributes.Address,
			Tags:     entry.Attributes.Tags,
			Owner:    entry.Attributes.Owner,
			Contacts: entry.Attributes.Contacts,
		})
	}

	return properties, nil
}
