package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const facebookGraphURL = "https://graph.facebook.com/me"

// FacebookVerifier resolves a Facebook access token via the Graph API.
type FacebookVerifier struct {
	client *http.Client
	url    string
}

func NewFacebookVerifier() *FacebookVerifier {
	return &FacebookVerifier{client: defaultHTTPClient, url: facebookGraphURL}
}

func (v *FacebookVerifier) Verify(ctx context.Context, assertion string) (Profile, error) {
	q := url.Values{}
	q.Set("fields", "id,name,email")
	q.Set("access_token", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url+"?"+q.Encode(), nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build facebook graph request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("facebook graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, ErrAssertionInvalid
	}

	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, fmt.Errorf("decode facebook graph response: %w", err)
	}
	// Facebook omits the email when the account has none or the permission
	// was declined.
	if body.Email == "" {
		return Profile{}, ErrNoEmail
	}

	return Profile{Email: body.Email, Name: body.Name}, nil
}
