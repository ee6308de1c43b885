package azuredevops

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"adobulk/internal/domain/entities"
)

const (
	apiVersion = "7.0"

	// zeroObjectID is the ref-creation sentinel: a ref update whose old
	// object ID is all zeros tells the service no prior ref must exist.
	zeroObjectID = "0000000000000000000000000000000000000000"

	// adoResourceScope is the OAuth2 scope of the Azure DevOps service
	// when authenticating with Azure AD client credentials.
	adoResourceScope = "499b84ac-1321-427f-aa17-267ca6975798/.default"

	publicHost       = "https://dev.azure.com"
	publicSearchHost = "https://almsearch.dev.azure.com"
)

// Client is an Azure DevOps REST API client scoped to one organization.
type Client struct {
	baseURL       string // https://dev.azure.com/<org>
	searchBaseURL string // https://almsearch.dev.azure.com/<org>
	pat           string
	httpClient    *http.Client
	org           string
}

// NewClient creates a client for the organization named in the settings.
// Authentication uses the PAT when one is configured, otherwise an OAuth2
// client-credentials token for the Azure DevOps resource.
func NewClient(settings *entities.Settings) *Client {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	pat := settings.PAT
	if pat == "" && settings.AzureAD != nil {
		credentials := clientcredentials.Config{
			ClientID:     settings.AzureAD.ClientID,
			ClientSecret: settings.AzureAD.ClientSecret,
			TokenURL: fmt.Sprintf(
				"https://login.microsoftonline.com/%s/oauth2/v2.0/token",
				settings.AzureAD.TenantID,
			),
			Scopes: []string{adoResourceScope},
		}
		httpClient = credentials.Client(context.Background())
		httpClient.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL:       settings.OrganizationURL(),
		searchBaseURL: searchBaseURL(settings.BaseURL) + "/" + settings.OrganizationName,
		pat:           pat,
		org:           settings.OrganizationName,
		httpClient:    httpClient,
	}
}

// searchBaseURL maps the git host to the code-search host. The public
// service runs search on a dedicated almsearch domain; on-premises
// installations serve it from the same host.
func searchBaseURL(base string) string {
	if strings.TrimSuffix(base, "/") == publicHost {
		return publicSearchHost
	}
	return strings.TrimSuffix(base, "/")
}

// Organization returns the organization name this client is scoped to.
func (c *Client) Organization() string {
	return c.org
}

// BaseURL returns the base URL of the Azure DevOps organization.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PullRequestURL builds the human-facing web URL of a pull request. Path
// segments are escaped so project and repository names with spaces produce
// valid links.
func (c *Client) PullRequestURL(projectName, repoName string, pullRequestID int) string {
	return fmt.Sprintf(
		"%s/%s/_git/%s/pullrequest/%d",
		c.baseURL,
		url.PathEscape(projectName),
		url.PathEscape(repoName),
		pullRequestID,
	)
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	return c.doAbsoluteRequest(ctx, method, c.baseURL+endpoint, body)
}

func (c *Client) doSearchRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	return c.doAbsoluteRequest(ctx, method, c.searchBaseURL+endpoint, body)
}

func (c *Client) doAbsoluteRequest(ctx context.Context, method, requestURL string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Basic auth with the PAT; the AAD path injects its bearer token via
	// the oauth2 transport instead.
	if c.pat != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(":" + c.pat))
		req.Header.Set("Authorization", "Basic "+auth)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
