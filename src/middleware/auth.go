// Package middleware holds the HTTP middlewares shared by the API and the
// worker.
package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"mfportal/src/models"
	"mfportal/src/policy"
	"mfportal/src/utils"

	"github.com/go-chi/jwtauth"
)

// Claim names read from verified access tokens.
const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
)

var errMissingClaims = errors.New("token does not identify a user")

// NewTokenAuth builds the HS256 verifier for access tokens issued by the
// identity provider.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// Authenticate verifies the bearer token and stores the caller as a
// policy.Principal in the request context. Requests without a valid token
// are answered with 401.
func Authenticate(tokenAuth *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	verify := jwtauth.Verifier(tokenAuth)
	return func(next http.Handler) http.Handler {
		return verify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := utils.LoggerFromContext(ctx)

			token, claims, err := jwtauth.FromContext(ctx)
			if err != nil || token == nil {
				logger.WithError(err).Info("rejected request without a valid token")
				utils.WriteError(w, utils.Unauthorized("Authentication credentials were not provided or are invalid."))
				return
			}
			principal, err := PrincipalFromClaims(claims)
			if err != nil {
				logger.WithError(err).Info("rejected token without identity claims")
				utils.WriteError(w, utils.Unauthorized("Authentication credentials were not provided or are invalid."))
				return
			}

			setCaller(ctx, principal.UserID)
			ctx = policy.WithPrincipal(ctx, principal)
			ctx = utils.WithLogger(ctx, logger.WithField("user_id", principal.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		}))
	}
}

// PrincipalFromClaims reads the caller out of verified token claims. Numeric
// claims arrive as float64 after JSON decoding.
func PrincipalFromClaims(claims map[string]interface{}) (policy.Principal, error) {
	var p policy.Principal

	id, err := claimUint(claims[ClaimUserID])
	if err != nil {
		return p, err
	}
	role, _ := claims[ClaimRole].(string)
	if !models.Role(role).Valid() {
		return p, fmt.Errorf("%w: unknown role %q", errMissingClaims, role)
	}

	p.UserID = id
	p.Role = models.Role(role)
	return p, nil
}

func claimUint(v interface{}) (uint, error) {
	var id uint64
	switch n := v.(type) {
	case float64:
		if n < 1 || n != float64(uint64(n)) {
			return 0, errMissingClaims
		}
		id = uint64(n)
	case int:
		if n < 1 {
			return 0, errMissingClaims
		}
		id = uint64(n)
	case int64:
		if n < 1 {
			return 0, errMissingClaims
		}
		id = uint64(n)
	case json.Number:
		parsed, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil || parsed == 0 {
			return 0, errMissingClaims
		}
		id = parsed
	case string:
		parsed, err := strconv.ParseUint(n, 10, 64)
		if err != nil || parsed == 0 {
			return 0, errMissingClaims
		}
		id = parsed
	default:
		return 0, errMissingClaims
	}
	return uint(id), nil
}

// IssueToken mints an access token for userID. Token issuance belongs to the
// identity provider; this exists for tests and local tooling.
func IssueToken(tokenAuth *jwtauth.JWTAuth, userID uint, role models.Role) (string, error) {
	claims := map[string]interface{}{
		ClaimUserID: userID,
		ClaimRole:   string(role),
	}
	_, tokenString, err := tokenAuth.Encode(claims)
	return tokenString, err
}
