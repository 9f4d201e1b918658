package dukeapi

import (
	"context"
	"fmt"
)

// People looks up directory entries matching name, e.g. "Brinnae Bent".
func (c *Client) People(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/ldap/people?q=%s&access_token=%s",
		c.streamerBaseURL, escape(name), c.token)

	body, err := c.get(ctx, "people", url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
