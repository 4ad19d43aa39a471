package adminsdk

import (
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client talks to the admin service on behalf of one browser session.
// It is safe for concurrent use, but all requests share the same login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client with an empty cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil) // only fails with a non-nil PublicSuffixList
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}
