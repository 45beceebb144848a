package user

import "time"

// User represents a registered account.
type User struct {
	ID           string    // ID is the opaque identifier assigned by the store
	FirstName    string    // FirstName is the user's given name
	LastName     string    // LastName is the user's family name
	Email        string    // Email is the unique login address
	PasswordHash string    // PasswordHash is the salted one-way hash; never plaintext
	CreatedAt    time.Time // CreatedAt is set by the store on insert
}
