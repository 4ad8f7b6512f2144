package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/lanternhq/lanternhack/internal/common"
)

func TestGenerateAndVerify_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", RoleAdmin, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	id, err := VerifyToken(tok, secret)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if id.UserID != "user-123" || id.Role != RoleAdmin {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", "", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = VerifyToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", "", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = VerifyToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := VerifyToken("not.a.jwt", []byte("k"))
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	player := &Identity{UserID: "u1"}
	admin := &Identity{UserID: "a1", Role: RoleAdmin}

	tests := []struct {
		name    string
		id      *Identity
		command string
		want    bool
	}{
		{"player can request challenge", player, CommandChallenge, true},
		{"player can guess", player, CommandGuess, true},
		{"player can list stations", player, CommandStationsList, true},
		{"player cannot reset round", player, CommandRoundReset, false},
		{"admin can reset round", admin, CommandRoundReset, true},
		{"unknown command denied", admin, "hack:cheat", false},
		{"nil identity denied", nil, CommandGuess, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.id, tc.command); got != tc.want {
				t.Fatalf("Authorize(%v, %q) = %v, want %v", tc.id, tc.command, got, tc.want)
			}
		})
	}
}
