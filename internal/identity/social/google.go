package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleVerifier resolves a Google OAuth access token via the OpenID Connect
// userinfo endpoint.
type GoogleVerifier struct {
	client *http.Client
	url    string
}

func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{client: defaultHTTPClient, url: googleUserinfoURL}
}

func (v *GoogleVerifier) Verify(ctx context.Context, assertion string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build google userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+assertion)

	resp, err := v.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, ErrAssertionInvalid
	}

	var body struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, fmt.Errorf("decode google userinfo: %w", err)
	}
	if body.Email == "" {
		return Profile{}, ErrNoEmail
	}

	return Profile{Email: body.Email, Name: body.Name}, nil
}
