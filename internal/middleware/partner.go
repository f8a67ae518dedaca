package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is the authenticated caller: the partner account and the
// subject (user) acting on its behalf.
type Principal struct {
	PartnerID uuid.UUID
	Subject   string
}

// Claims are the JWT claims issued by the identity system.
type Claims struct {
	PartnerID string `json:"partner_id"`
	jwt.RegisteredClaims
}

var errMissingPartner = errors.New("token carries no valid partner_id")

type principalKey struct{}

type slotKey struct{}

// principalSlot lets an outer middleware observe the principal resolved by
// an inner one.
type principalSlot struct {
	p   Principal
	set bool
}

func withPrincipalSlot(ctx context.Context, s *principalSlot) context.Context {
	return context.WithValue(ctx, slotKey{}, s)
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if s, ok := ctx.Value(slotKey{}).(*principalSlot); ok {
		s.p, s.set = p, true
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored by NewPartnerAuth.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// NewPartnerAuth returns a middleware that requires an HS256 bearer token
// signed with secret. The partner_id claim selects the partner every query is
// scoped to; sub is recorded as the acting user. Requests without a valid
// token get 401 and never reach next.
func NewPartnerAuth(secret []byte) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			p, err := parsePrincipal(parser, raw, keyFunc)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func parsePrincipal(parser *jwt.Parser, raw string, keyFunc jwt.Keyfunc) (Principal, error) {
	var claims Claims
	if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
		return Principal{}, err
	}
	id, err := uuid.Parse(claims.PartnerID)
	if err != nil || id == uuid.Nil {
		return Principal{}, errMissingPartner
	}
	return Principal{PartnerID: id, Subject: claims.Subject}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
