package service

import "context"

// Identity resolves the acting user for a request.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// StaticIdentity is an Identity fixed at startup, from config or --as.
// The empty value means nobody is signed in.
type StaticIdentity string

func (s StaticIdentity) CurrentUserID(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoSession
	}
	return string(s), nil
}
