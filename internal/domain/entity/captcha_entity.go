package entity

import "time"

// Challenge is an arithmetic captcha handed to a client before login.
// Answer never leaves the server.
type Challenge struct {
	ID        string
	Question  string
	Answer    int
	ExpiresAt time.Time
}
