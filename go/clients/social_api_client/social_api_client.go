package social_api_client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mcdev12/matchday/go/clients"
)

// SocialApiClient reads matches, credit balances and friend lists from the
// social platform's JSON API
type SocialApiClient struct {
	*clients.BaseClient
}

func NewSocialApiClient(baseURL, token string) *SocialApiClient {
	client := &SocialApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(AcceptHeader, "application/json")
	if token != "" {
		client.SetHeader(AuthorizationHeader, "Bearer "+token)
	}

	return client
}

// notFound turns a 404 into notFoundErr so callers can match it
func notFound(err error, notFoundErr error, what string) error {
	var status *clients.StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", what, notFoundErr)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
