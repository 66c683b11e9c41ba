package service

import (
	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/pkg/jwtx"
)

// Authorizer turns a presented access token into an authenticated identity.
// It is the single gate in front of every protected endpoint.
type Authorizer struct {
	Codec *jwtx.Codec
}

// Check verifies the token's signature, expiry and audience, then validates
// the identity claims it carries. Every failure mode returns
// jwtx.ErrBadAuthentication; callers learn nothing about why a token was
// rejected.
func (a *Authorizer) Check(token string) (domain.AuthContext, error) {
	claims, err := a.Codec.Decode(token, []string{jwtx.AudienceAPI})
	if err != nil {
		return domain.AuthContext{}, jwtx.ErrBadAuthentication
	}

	role := domain.Role(claims.Role)
	rank := domain.Rank(claims.Rank)
	if claims.Subject == "" || !role.Valid() || !rank.Valid() {
		return domain.AuthContext{}, jwtx.ErrBadAuthentication
	}

	return domain.AuthContext{
		UserID: claims.Subject,
		Email:  claims.EmailAddress,
		Role:   role,
		Rank:   rank,
	}, nil
}
