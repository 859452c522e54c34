package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blogsystem/blog-api/internal/config"
	"github.com/blogsystem/blog-api/internal/models"
	"github.com/blogsystem/blog-api/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken creates a signed JWT access token for the account.
// The `sub` claim carries the account ID; post handlers use it as the caller identity.
func GenerateAccessToken(cfg *config.Config, a *models.Account, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   a.ID,
		"name":  a.Name,
		"email": a.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// claimsToken exposes verified claims to the auth middleware
type claimsToken struct {
	claims jwt.MapClaims
}

func (t *claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Verifier validates first-party HS256 access tokens
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates the raw token and returns a middleware.Token exposing its claims
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return &claimsToken{claims: claims}, nil
}

// RemainingTTL returns the time until the token's exp claim. Used when
// blacklisting an access token on logout.
func (v *Verifier) RemainingTTL(ctx context.Context, raw string) (time.Duration, error) {
	tok, err := v.Verify(ctx, raw)
	if err != nil {
		return 0, err
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		return 0, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return 0, fmt.Errorf("exp claim not present")
	}
	return time.Until(time.Unix(int64(exp), 0)), nil
}
