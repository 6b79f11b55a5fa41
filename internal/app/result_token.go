package app

import (
	"fmt"
	"time"

	"collapsization/internal/domain"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// ResultTokenService signs per-player match outcome attestations handed
// out with the game-over broadcast. Downstream services (tournaments,
// reward claims) verify them against the shared secret.
type ResultTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

const (
	ResultOutcomeWin  = "win"
	ResultOutcomeLoss = "loss"
)

func NewResultTokenService(secret, issuer string) *ResultTokenService {
	return &ResultTokenService{
		secret: secret,
		issuer: issuer,
		ttl:    time.Hour * 24,
	}
}

// GenerateToken signs one player's final standing in a finished match.
func (s *ResultTokenService) GenerateToken(matchID, userID string, role domain.Role, score int, won bool) (string, error) {
	if s == nil {
		return "", fmt.Errorf("result token service is nil")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("result token config is incomplete")
	}
	if matchID == "" || userID == "" {
		return "", fmt.Errorf("match id and user id are required")
	}

	outcome := ResultOutcomeLoss
	if won {
		outcome = ResultOutcomeWin
	}

	claims := jwt.MapClaims{
		"iss":     s.issuer,
		"sub":     userID,
		"exp":     time.Now().Add(s.ttl).Unix(),
		"jti":     uuid.NewString(),
		"mid":     matchID,
		"role":    string(role),
		"score":   score,
		"outcome": outcome,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
