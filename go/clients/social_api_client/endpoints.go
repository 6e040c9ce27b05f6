package social_api_client

const (
	// API Endpoints
	MatchEndpoint   = "/v1/matches/%s"
	CreditsEndpoint = "/v1/users/%s/credits"
	FriendsEndpoint = "/v1/users/%s/friends"

	// Headers
	AuthorizationHeader = "Authorization"
	AcceptHeader        = "Accept"
)
