package hack

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/logging"
	"github.com/lanternhq/lanternhack/internal/server/config"
	"github.com/lanternhq/lanternhack/internal/server/metrics"
	"github.com/lanternhq/lanternhack/internal/server/repositories/repomanager"
	"github.com/lanternhq/lanternhack/internal/server/sessions"
)

// SignalApplier is the slice of the signal engine the orchestrator needs.
type SignalApplier interface {
	Apply(ctx context.Context, stationID int64, boosting bool) (int64, error)
}

// Matches carries the positional-match feedback of a failed guess. Only the
// count is ever revealed, never which positions matched.
type Matches struct {
	Amount int `json:"amount"`
}

// GuessResult is the outcome of one submitted guess.
type GuessResult struct {
	Success   bool     `json:"success"`
	Boosting  bool     `json:"boosting,omitempty"`
	TriesLeft int      `json:"tries_left"`
	Matches   *Matches `json:"matches,omitempty"`
}

// Service is the hack orchestrator: the two operations the transport layer
// calls, composed over the session store, the account pool, the challenge
// generator, and the signal engine.
type Service struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions sessions.Store
	engine   SignalApplier
	gen      *Generator
	logger   logging.Logger

	triesBudget int
	decoySize   int
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, store sessions.Store,
	engine SignalApplier, gen *Generator, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		repos:       repos,
		sessions:    store,
		engine:      engine,
		gen:         gen,
		logger:      logger.With("module", "hack_service"),
		triesBudget: cfg.TriesBudget,
		decoySize:   cfg.DecoyDisplaySize,
	}
}

// RequestChallenge returns the caller's current challenge for the station,
// creating a fresh session when none exists or when the caller switches
// stations. Switching discards the previous session wholesale.
func (s *Service) RequestChallenge(ctx context.Context, owner string, stationID int64) (*Challenge, error) {
	session, err := s.sessions.Get(ctx, owner)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: loading session: %v", common.ErrStorage, err)
	}

	if session == nil || session.StationID != stationID {
		pool, err := s.repos.Accounts(s.db).GetCandidatesForStation(ctx, stationID)
		if err != nil {
			return nil, fmt.Errorf("%w: loading candidates: %v", common.ErrStorage, err)
		}
		if len(pool) == 0 {
			return nil, common.ErrNotFound
		}

		session, err = s.gen.NewSession(owner, stationID, pool, s.triesBudget)
		if err != nil {
			return nil, err
		}

		if err := s.sessions.Replace(ctx, session); err != nil {
			return nil, fmt.Errorf("%w: storing session: %v", common.ErrStorage, err)
		}

		s.logger.Info(ctx, "hack session created", "owner", owner, "station_id", stationID)
	}

	decoys, err := s.repos.Accounts(s.db).GetDecoyPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading decoy pool: %v", common.ErrStorage, err)
	}

	challenge, err := s.gen.BuildChallenge(session, decoys, s.decoySize)
	if err != nil {
		return nil, err
	}

	metrics.ChallengesIssued.Inc()
	return challenge, nil
}

// SubmitGuess resolves one guess against the caller's session.
//
// A correct guess with tries remaining applies the signal engine and
// destroys the session; an engine failure leaves the session intact and
// consumes no try. Any other guess consumes a try and reports the
// positional match count; the session is destroyed when the last try is
// spent.
func (s *Service) SubmitGuess(ctx context.Context, owner, password string, boosting bool) (*GuessResult, error) {
	session, err := s.sessions.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoActiveSession
		}
		return nil, fmt.Errorf("%w: loading session: %v", common.ErrStorage, err)
	}

	correct := session.Correct()
	if correct == nil {
		return nil, fmt.Errorf("%w: session has no correct candidate", common.ErrInternal)
	}

	guess := strings.ToLower(password)
	target := strings.ToLower(correct.Password)

	// Tries are validated before accepting a win: a correct password on an
	// exhausted session must not succeed.
	if guess == target && session.TriesLeft > 0 {
		if _, err := s.engine.Apply(ctx, session.StationID, boosting); err != nil {
			metrics.Guesses.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("%w: signal engine: %v", common.ErrExternal, err)
		}

		if err := s.sessions.Delete(ctx, owner); err != nil {
			return nil, fmt.Errorf("%w: deleting session: %v", common.ErrStorage, err)
		}

		s.logger.Info(ctx, "station hacked", "owner", owner, "station_id", session.StationID, "boosting", boosting)
		metrics.Guesses.WithLabelValues(metrics.OutcomeWin).Inc()
		return &GuessResult{Success: true, Boosting: boosting}, nil
	}

	if session.TriesLeft > 0 {
		session.TriesLeft--
	}

	matches := &Matches{Amount: PositionalMatches(guess, target)}

	if session.TriesLeft <= 0 {
		if err := s.sessions.Delete(ctx, owner); err != nil {
			return nil, fmt.Errorf("%w: deleting session: %v", common.ErrStorage, err)
		}
		metrics.Guesses.WithLabelValues(metrics.OutcomeExhausted).Inc()
		return &GuessResult{Success: false, TriesLeft: 0, Matches: matches}, nil
	}

	if err := s.sessions.Replace(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: storing session: %v", common.ErrStorage, err)
	}

	metrics.Guesses.WithLabelValues(metrics.OutcomeMiss).Inc()
	return &GuessResult{Success: false, TriesLeft: session.TriesLeft, Matches: matches}, nil
}

// PositionalMatches counts the positions where guess and target hold the
// same character. This is a strict positional comparison, not a bag or
// substring match: guess[i] counts only if target[i] is the same rune.
func PositionalMatches(guess, target string) int {
	g := []rune(guess)
	t := []rune(target)

	n := len(g)
	if len(t) < n {
		n = len(t)
	}

	count := 0
	for i := 0; i < n; i++ {
		if g[i] == t[i] {
			count++
		}
	}
	return count
}
