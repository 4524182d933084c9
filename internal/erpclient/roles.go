package erpclient

import (
	"context"
	"fmt"
	"net/http"
)

type permissionsResponse struct {
	Permissions []string `json:"permissions"`
}

// EffectivePermissions resolves a user's granted permissions via the
// upstream role service.
func (c *Client) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	var resp permissionsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/roles/users/%d/permissions", userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}
