package models

// Account is one identity associated with a station. Its password list is
// the raw material challenges are built from; the list order is significant
// because the password type letter is derived from the index.
type Account struct {
	ID        int64
	StationID int64
	UserName  string
	Passwords []string
}
