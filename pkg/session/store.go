// Package session tracks who is logged in. The Store is the single
// source of truth for the bearer token and the user profile, persists
// them together across runs and keeps the API client's token in sync.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/studentbudget/backend/pkg/client"
)

// State is the lifecycle state of a session store.
type State string

const (
	// StateUninitialized is the state before Init has completed.
	StateUninitialized State = "uninitialized"

	// StateAnonymous means no valid session exists.
	StateAnonymous State = "anonymous"

	// StateAuthenticated means a token and the matching profile are loaded.
	StateAuthenticated State = "authenticated"
)

// ErrNoToken is returned when a login or registration response does not
// carry an access token.
var ErrNoToken = errors.New("response did not contain an access token")

// Store holds the current session. It is not safe for concurrent use,
// callers with concurrent writers must serialize access themselves.
type Store struct {
	api     *client.Client
	storage Storage

	state State
	user  *client.User

	// now is replaceable for tests
	now func() time.Time
}

// New returns a Store in the uninitialized state. Call Init before
// reading the state.
func New(api *client.Client, storage Storage) *Store {
	return &Store{
		api:     api,
		storage: storage,
		state:   StateUninitialized,
		now:     time.Now,
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	return s.state
}

// User returns the profile of the authenticated user, or nil.
func (s *Store) User() *client.User {
	return s.user
}

// Token returns the current bearer token, or the empty string.
func (s *Store) Token() string {
	return s.api.Token()
}

// Init restores a persisted session. A token that locally appears
// expired is discarded without a server round trip. A token that looks
// usable is verified by fetching the profile, and discarded if the
// server rejects it. Init never fails because of an invalid session,
// only storage errors are returned.
func (s *Store) Init(ctx context.Context) error {
	creds, err := s.storage.Read()
	if err != nil {
		return err
	}

	if creds.Token == "" || ExpiresBefore(creds.Token, s.now()) {
		return s.toAnonymous()
	}

	s.api.SetToken(creds.Token)

	user, err := s.api.Me(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("persisted session rejected")
		return s.toAnonymous()
	}

	// Refresh the stored profile with the server's copy
	if err := s.storage.Write(Credentials{Token: creds.Token, User: &user}); err != nil {
		return err
	}

	s.user = &user
	s.state = StateAuthenticated
	return nil
}

// Login exchanges credentials for a session. On any failure the store
// ends up anonymous with nothing persisted, and the error is returned to
// the caller so it can be shown to the user.
func (s *Store) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return errors.Join(err, s.toAnonymous())
	}

	return s.establish(ctx, token)
}

// Register creates an account and logs it in, the server issues a token
// directly on registration. Failure handling matches Login.
func (s *Store) Register(ctx context.Context, data client.RegisterData) error {
	token, err := s.api.Register(ctx, data)
	if err != nil {
		return errors.Join(err, s.toAnonymous())
	}

	return s.establish(ctx, token)
}

// establish turns a freshly issued token into a full session. The token
// is only persisted together with the profile, so a failed profile fetch
// leaves no partial state behind.
func (s *Store) establish(ctx context.Context, token client.TokenResponse) error {
	if token.AccessToken == "" {
		return errors.Join(ErrNoToken, s.toAnonymous())
	}

	s.api.SetToken(token.AccessToken)

	user, err := s.api.Me(ctx)
	if err != nil {
		return errors.Join(err, s.toAnonymous())
	}

	if err := s.storage.Write(Credentials{Token: token.AccessToken, User: &user}); err != nil {
		return errors.Join(err, s.toAnonymous())
	}

	s.user = &user
	s.state = StateAuthenticated
	return nil
}

// Logout drops the session. It is purely local, the server keeps no
// session state to invalidate.
func (s *Store) Logout() error {
	return s.toAnonymous()
}

func (s *Store) toAnonymous() error {
	s.api.SetToken("")
	s.user = nil
	s.state = StateAnonymous
	return s.storage.Clear()
}
