// Package misskey holds the webhook payload schema emitted by Misskey servers.
package misskey

import "time"

// User is a note author or an abuse-report party. Host is nil for users local
// to the server that emitted the webhook.
type User struct {
	Name      *string
	Username  string
	Host      *string
	AvatarURL string
}

// DisplayName falls back to the username when no display name is set.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Username
}

// Acct renders the user as "@username" or "@username@host".
func (u User) Acct() string {
	if u.Host != nil {
		return "@" + u.Username + "@" + *u.Host
	}
	return "@" + u.Username
}

type DriveFile struct {
	URL  string
	Type string
}

type Note struct {
	ID        string
	CreatedAt time.Time
	Text      *string
	// CW is the content warning, present only on servers that send it.
	CW    *string
	User  User
	Files []DriveFile
}

type AbuseReport struct {
	TargetUser *User
	Reporter   *User
	Comment    string
}
