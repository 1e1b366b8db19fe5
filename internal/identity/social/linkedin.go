package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const linkedinUserinfoURL = "https://api.linkedin.com/v2/userinfo"

// LinkedInVerifier resolves a LinkedIn access token via the OpenID Connect
// userinfo endpoint.
type LinkedInVerifier struct {
	client *http.Client
	url    string
}

func NewLinkedInVerifier() *LinkedInVerifier {
	return &LinkedInVerifier{client: defaultHTTPClient, url: linkedinUserinfoURL}
}

func (v *LinkedInVerifier) Verify(ctx context.Context, assertion string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build linkedin userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+assertion)

	resp, err := v.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("linkedin userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, ErrAssertionInvalid
	}

	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, fmt.Errorf("decode linkedin userinfo: %w", err)
	}
	if body.Email == "" {
		return Profile{}, ErrNoEmail
	}

	return Profile{Email: body.Email, Name: body.Name}, nil
}
