// Package auth verifies the bearer tokens minted by the surrounding chat
// server and decides which commands a caller may run. Token verification is
// the only authentication mechanic this service owns; account management
// lives elsewhere.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lanternhq/lanternhack/internal/common"
)

// RoleAdmin marks callers allowed to run round administration commands.
const RoleAdmin = "admin"

// Commands recognized by Authorize. The names mirror the socket commands of
// the surrounding chat server.
const (
	CommandChallenge    = "hack:challenge"
	CommandGuess        = "hack:guess"
	CommandStationsList = "stations:list"
	CommandRoundReset   = "round:reset"
)

// Claims carries the registered claims plus the caller identity fields the
// chat server embeds in its tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// Identity is the verified caller extracted from a token.
type Identity struct {
	UserID string
	Role   string
}

// GenerateToken mints an HS256 token for the given identity. Used by tests
// and the CLI's dev-token command; production tokens come from the chat
// server, which shares the secret.
func GenerateToken(userID, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken parses and validates a token string and returns the caller
// identity. Expired tokens yield common.ErrTokenExpired; anything else
// malformed yields common.ErrInvalidToken.
func VerifyToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// Authorize reports whether the identity may run the named command.
// Player commands are open to any verified caller; round administration
// requires the admin role.
func Authorize(id *Identity, command string) bool {
	if id == nil {
		return false
	}
	switch command {
	case CommandChallenge, CommandGuess, CommandStationsList:
		return true
	case CommandRoundReset:
		return id.Role == RoleAdmin
	default:
		return false
	}
}
