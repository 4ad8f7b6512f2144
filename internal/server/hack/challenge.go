// Package hack contains the hacking minigame's business logic: building
// guess challenges and resolving submitted guesses.
package hack

import (
	"fmt"
	"math/rand/v2"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/server/models"
)

// sessionCandidates is how many identities a fresh session targets. A pool
// of one still yields a viable session.
const sessionCandidates = 2

// Challenge is the payload handed to the caller. It is deliberately not the
// stored session: it never carries isCorrect flags, the real passwords are
// hidden in a shuffled decoy superset, and only the correct candidate's
// identity, hint, and type are exposed.
type Challenge struct {
	StationID    int64               `json:"station_id"`
	Passwords    []string            `json:"passwords"`
	TriesLeft    int                 `json:"tries_left"`
	UserName     string              `json:"user_name"`
	PasswordType string              `json:"password_type"`
	PasswordHint models.PasswordHint `json:"password_hint"`
}

// Generator builds hack sessions and their client-facing challenges.
// The intN field is the single source of randomness so tests can make
// generation deterministic; the default is the shared thread-safe PRNG.
type Generator struct {
	intN func(n int) int
}

func NewGenerator() *Generator {
	return &Generator{intN: rand.IntN}
}

func newGeneratorWithIntN(intN func(n int) int) *Generator {
	return &Generator{intN: intN}
}

// NewSession selects the session's candidates from the station's account
// pool. The first selected candidate is the correct one; selection order is
// the only source of randomness, not a ranking. Accounts without passwords
// cannot be solutions and are skipped.
func (g *Generator) NewSession(owner string, stationID int64, pool []*models.Account, tries int) (*models.HackSession, error) {
	viable := make([]*models.Account, 0, len(pool))
	for _, acc := range pool {
		if len(acc.Passwords) > 0 {
			viable = append(viable, acc)
		}
	}

	if len(viable) == 0 {
		return nil, common.ErrInsufficientCandidates
	}

	g.shuffleAccounts(viable)

	count := sessionCandidates
	if len(viable) < count {
		count = len(viable)
	}

	session := &models.HackSession{
		Owner:     owner,
		StationID: stationID,
		TriesLeft: tries,
	}

	for i := 0; i < count; i++ {
		candidate, err := g.newCandidate(viable[i])
		if err != nil {
			return nil, err
		}
		candidate.IsCorrect = i == 0
		session.Candidates = append(session.Candidates, candidate)
	}

	return session, nil
}

// newCandidate picks one of the account's passwords uniformly at random.
// The password type letter comes from the password's index in the account's
// list (first → "A", second → "B", …); the hint reveals one random
// character position.
func (g *Generator) newCandidate(acc *models.Account) (models.Candidate, error) {
	idx := g.intN(len(acc.Passwords))
	password := acc.Passwords[idx]

	runes := []rune(password)
	if len(runes) == 0 {
		return models.Candidate{}, fmt.Errorf("account %d has an empty password", acc.ID)
	}
	hintIdx := g.intN(len(runes))

	return models.Candidate{
		UserName:     acc.UserName,
		Password:     password,
		PasswordType: string(rune('A' + idx)),
		PasswordHint: models.PasswordHint{
			Index:     hintIdx,
			Character: string(runes[hintIdx]),
		},
	}, nil
}

// BuildChallenge produces the caller-facing payload for a session: the real
// candidate passwords merged into a shuffled set of at most displaySize
// decoys, plus the correct candidate's hint.
func (g *Generator) BuildChallenge(session *models.HackSession, decoys []string, displaySize int) (*Challenge, error) {
	correct := session.Correct()
	if correct == nil {
		return nil, fmt.Errorf("%w: session has no correct candidate", common.ErrInternal)
	}

	shown := append([]string(nil), decoys...)
	g.shuffleStrings(shown)
	if len(shown) > displaySize {
		shown = shown[:displaySize]
	}

	for _, c := range session.Candidates {
		shown = append(shown, c.Password)
	}
	g.shuffleStrings(shown)

	return &Challenge{
		StationID:    session.StationID,
		Passwords:    shown,
		TriesLeft:    session.TriesLeft,
		UserName:     correct.UserName,
		PasswordType: correct.PasswordType,
		PasswordHint: correct.PasswordHint,
	}, nil
}

func (g *Generator) shuffleAccounts(s []*models.Account) {
	for i := len(s) - 1; i > 0; i-- {
		j := g.intN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

func (g *Generator) shuffleStrings(s []string) {
	for i := len(s) - 1; i > 0; i-- {
		j := g.intN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
