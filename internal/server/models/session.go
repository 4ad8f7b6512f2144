package models

// PasswordHint reveals a single character of a password: its position and
// the character at that position.
type PasswordHint struct {
	Index     int    `json:"index"`
	Character string `json:"character"`
}

// Candidate is one identity whose password might be the session's solution.
type Candidate struct {
	UserName     string       `json:"user_name"`
	Password     string       `json:"password"`
	PasswordType string       `json:"password_type"`
	PasswordHint PasswordHint `json:"password_hint"`
	IsCorrect    bool         `json:"is_correct"`
}

// HackSession is a user's in-progress challenge against one station.
// At most one session exists per owner; exactly one candidate is correct.
type HackSession struct {
	Owner      string      `json:"owner"`
	StationID  int64       `json:"station_id"`
	Candidates []Candidate `json:"candidates"`
	TriesLeft  int         `json:"tries_left"`
}

// Correct returns the session's correct candidate, or nil if the session is
// malformed.
func (s *HackSession) Correct() *Candidate {
	for i := range s.Candidates {
		if s.Candidates[i].IsCorrect {
			return &s.Candidates[i]
		}
	}
	return nil
}
