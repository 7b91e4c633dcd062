package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	memberResponse "github.com/LavaJover/shvark-compensation-service/internal/delivery/http/dto/member/response"
)

// DirectoryClient reads members from the member registry over HTTP.
type DirectoryClient struct {
	address string
	client  *http.Client
}

func NewDirectoryClient(address string, timeout time.Duration) *DirectoryClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DirectoryClient{
		address: strings.TrimRight(address, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *DirectoryClient) Exists(ctx context.Context, memberID string) (bool, error) {
	member, err := c.getMember(ctx, memberID)
	if err != nil {
		return false, err
	}
	return member != nil, nil
}

func (c *DirectoryClient) IsActive(ctx context.Context, memberID string) (bool, error) {
	member, err := c.getMember(ctx, memberID)
	if err != nil || member == nil {
		return false, err
	}
	return strings.EqualFold(member.Status, "ACTIVE"), nil
}

// getMember returns nil without error when the registry does not know the
// member.
func (c *DirectoryClient) getMember(ctx context.Context, memberID string) (*memberResponse.MemberResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/members/%s", c.address, url.PathEscape(memberID)), nil)
	if err != nil {
		return nil, err
	}
	response, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("member directory: %w", err)
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case response.StatusCode == http.StatusNotFound:
		return nil, nil
	case response.StatusCode >= 200 && response.StatusCode < 300:
		var member memberResponse.MemberResponse
		if err := json.Unmarshal(responseBodyBytes, &member); err != nil {
			return nil, fmt.Errorf("member directory: %w", err)
		}
		return &member, nil
	default:
		var errorResponse memberResponse.ErrorResponse
		if err := json.Unmarshal(responseBodyBytes, &errorResponse); err != nil || errorResponse.Error == "" {
			return nil, fmt.Errorf("member directory returned status %d", response.StatusCode)
		}
		return nil, errors.New(errorResponse.Error)
	}
}
