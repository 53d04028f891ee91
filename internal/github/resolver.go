package github

import (
	"context"
	"log"
)

// CredentialSource records which source supplied a resolved token.
type CredentialSource string

const (
	SourceOAuth    CredentialSource = "oauth"    // Clerk-stored GitHub OAuth token
	SourceFallback CredentialSource = "fallback" // statically configured personal access token
)

// Credential is a bearer token whose repo scope has been verified for this
// exact token value. Scope does not transfer between tokens, so a Credential
// only ever comes out of the resolver.
type Credential struct {
	Token  string
	Source CredentialSource
}

// OAuthTokenProvider looks up the caller's stored GitHub OAuth token.
// ok=false means the caller never connected GitHub.
type OAuthTokenProvider interface {
	GitHubOAuthToken(ctx context.Context, userID string) (token string, ok bool, err error)
}

// ScopeProbe verifies that a specific token value grants the repo scope.
type ScopeProbe interface {
	CheckTokenScope(ctx context.Context, token string) (bool, error)
}

// TokenResolver picks a usable GitHub credential for a caller: the caller's
// own OAuth token when it carries the repo scope, otherwise the configured
// fallback token, otherwise none. Every candidate token is probed fresh —
// a cached "connected" flag says nothing about scopes revoked upstream.
type TokenResolver struct {
	oauth         OAuthTokenProvider // nil when no Clerk secret is configured
	fallbackToken string
	probe         ScopeProbe
}

func NewTokenResolver(oauth OAuthTokenProvider, fallbackToken string, probe ScopeProbe) *TokenResolver {
	return &TokenResolver{
		oauth:         oauth,
		fallbackToken: fallbackToken,
		probe:         probe,
	}
}

// Resolve returns the credential to use for the caller's provisioning
// request, or ok=false when no scoped token exists. Provider and probe
// failures are logged and treated as "no token from this source" so an
// upstream blip degrades to the next source instead of failing the call.
func (r *TokenResolver) Resolve(ctx context.Context, callerID string) (Credential, bool) {
	var oauthToken string

	if r.oauth != nil {
		token, ok, err := r.oauth.GitHubOAuthToken(ctx, callerID)
		switch {
		case err != nil:
			log.Printf("token resolver: error retrieving OAuth token for %s: %v", callerID, err)
		case !ok:
			log.Printf("token resolver: no GitHub OAuth token found for user %s", callerID)
		default:
			oauthToken = token
		}
	}

	if oauthToken != "" {
		if r.hasRepoScope(ctx, oauthToken) {
			log.Println("token resolver: using OAuth token with repo scope")
			return Credential{Token: oauthToken, Source: SourceOAuth}, true
		}
		log.Println("token resolver: OAuth token lacks repo scope")
	}

	if r.fallbackToken != "" {
		if r.hasRepoScope(ctx, r.fallbackToken) {
			log.Println("token resolver: falling back to configured token with repo scope")
			return Credential{Token: r.fallbackToken, Source: SourceFallback}, true
		}
		log.Println("token resolver: configured fallback token lacks repo scope")
	}

	log.Printf("token resolver: no usable GitHub token for user %s", callerID)
	return Credential{}, false
}

func (r *TokenResolver) hasRepoScope(ctx context.Context, token string) bool {
	ok, err := r.probe.CheckTokenScope(ctx, token)
	if err != nil {
		log.Printf("token resolver: error checking token scope: %v", err)
		return false
	}
	return ok
}
