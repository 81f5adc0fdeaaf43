// Package workflow disables the GitHub Actions workflow that re-invokes the
// bot on a schedule, so the bot stops running once its goal is reached.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultAPIBaseURL = "https://api.github.com"

// Manager looks up a workflow by its repository path and disables it
// through the GitHub REST API. The disable call is idempotent: disabling an
// already-disabled workflow succeeds.
type Manager struct {
	token        string
	repository   string
	workflowFile string
	baseURL      string
	httpClient   *http.Client
}

// NewManager creates a manager for one repository's scheduled workflow.
func NewManager(token, repository, workflowFile string) (*Manager, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if repository == "" {
		return nil, fmt.Errorf("github repository is required")
	}
	if workflowFile == "" {
		workflowFile = "main.yml"
	}
	return &Manager{
		token:        token,
		repository:   repository,
		workflowFile: workflowFile,
		baseURL:      defaultAPIBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type workflowInfo struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

type workflowList struct {
	Workflows []workflowInfo `json:"workflows"`
}

// DisableWorkflow finds the workflow whose path is
// .github/workflows/<workflowFile> and issues the disable call.
func (m *Manager) DisableWorkflow(ctx context.Context) error {
	listURL := fmt.Sprintf("%s/repos/%s/actions/workflows", m.baseURL, m.repository)
	body, err := m.doRequest(ctx, http.MethodGet, listURL)
	if err != nil {
		return fmt.Errorf("failed to list workflows: %w", err)
	}

	var list workflowList
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("failed to parse workflows response: %w", err)
	}

	wantPath := ".github/workflows/" + m.workflowFile
	var target *workflowInfo
	for i := range list.Workflows {
		if list.Workflows[i].Path == wantPath {
			target = &list.Workflows[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("workflow %q not found in %s", m.workflowFile, m.repository)
	}

	disableURL := fmt.Sprintf("%s/repos/%s/actions/workflows/%d/disable", m.baseURL, m.repository, target.ID)
	if _, err := m.doRequest(ctx, http.MethodPut, disableURL); err != nil {
		return fmt.Errorf("failed to disable workflow: %w", err)
	}

	slog.Info("Successfully disabled workflow", "workflow", m.workflowFile, "repository", m.repository)
	return nil
}

func (m *Manager) doRequest(ctx context.Context, method, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+m.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, preview)
	}
	return body, nil
}
