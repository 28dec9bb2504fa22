package antiscam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// ThreatScanner checks URLs against a Safe Browsing style threat-matching API
type ThreatScanner interface {
	CheckURLs(ctx context.Context, urls []string) (map[string]bool, error)
}

// SafeBrowsingScanner implements ThreatScanner against the Google Safe
// Browsing v4 threatMatches endpoint (or any API speaking the same shape)
type SafeBrowsingScanner struct {
	httpClient *retryablehttp.Client
	apiURL     string
	apiKey     string
}

func NewSafeBrowsingScanner(apiURL, apiKey string) *SafeBrowsingScanner {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil

	return &SafeBrowsingScanner{
		httpClient: client,
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

type threatEntry struct {
	URL string `json:"url"`
}

type threatMatchesRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string      `json:"threatTypes"`
		PlatformTypes    []string      `json:"platformTypes"`
		ThreatEntryTypes []string      `json:"threatEntryTypes"`
		ThreatEntries    []threatEntry `json:"threatEntries"`
	} `json:"threatInfo"`
}

type threatMatchesResponse struct {
	Matches []struct {
		Threat threatEntry `json:"threat"`
	} `json:"matches"`
}

// CheckURLs returns a map of url -> malicious for every queried URL
func (s *SafeBrowsingScanner) CheckURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	results := make(map[string]bool, len(urls))
	for _, u := range urls {
		results[u] = false
	}
	if len(urls) == 0 {
		return results, nil
	}

	payload := threatMatchesRequest{}
	payload.Client.ClientID = "kurumi-bot"
	payload.Client.ClientVersion = "1.0.0"
	payload.ThreatInfo.ThreatTypes = []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE"}
	payload.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	payload.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	for _, u := range urls {
		payload.ThreatInfo.ThreatEntries = append(payload.ThreatInfo.ThreatEntries, threatEntry{URL: u})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal threat request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", s.apiURL+"?key="+s.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create threat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute threat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("threat API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var matches threatMatchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("failed to decode threat response: %w", err)
	}

	for _, match := range matches.Matches {
		results[match.Threat.URL] = true
	}

	return results, nil
}
