package adminsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Login posts the login form. On success the session cookie is kept for
// later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	resp, err := c.postForm(ctx, "/login", url.Values{
		"userEmail":    {email},
		"userPassword": {password},
	})
	if err != nil {
		return err
	}
	_, err = expect(resp, http.StatusSeeOther, "/")
	return err
}

// Logout ends the session. It succeeds whether or not anyone was logged in.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.postForm(ctx, "/logout", url.Values{})
	if err != nil {
		return err
	}
	_, err = expect(resp, http.StatusSeeOther, "/")
	return err
}

// Page fetches an HTML page and returns its body.
func (c *Client) Page(ctx context.Context, path string) (string, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	body, err := expect(resp, http.StatusOK, "")
	return string(body), err
}

// ListUsers returns the rendered user list.
func (c *Client) ListUsers(ctx context.Context) (string, error) {
	return c.Page(ctx, "/users")
}

// EditUser returns the rendered edit form for id; 0 is the blank form.
func (c *Client) EditUser(ctx context.Context, id int64) (string, error) {
	return c.Page(ctx, "/users/edit?user_id="+strconv.FormatInt(id, 10))
}

// SaveUser creates or updates a user.
func (c *Client) SaveUser(ctx context.Context, form UserForm) error {
	resp, err := c.postForm(ctx, "/users/save", form.Values())
	if err != nil {
		return err
	}
	_, err = expect(resp, http.StatusSeeOther, "/users")
	return err
}

// DeleteUser deletes the user with id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	resp, err := c.postForm(ctx, "/users/delete", url.Values{
		"user_id": {strconv.FormatInt(id, 10)},
	})
	if err != nil {
		return err
	}
	_, err = expect(resp, http.StatusSeeOther, "/users")
	return err
}
