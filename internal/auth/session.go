// Package auth signs users in and publishes the signed-in user through
// a Session.
package auth

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/localcache"
)

// User is the signed-in profile.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Provider    string `json:"provider"`
}

// Name returns the display name, else the email local part, else "User".
func (u *User) Name() string {
	if u == nil {
		return "User"
	}
	if n := strings.TrimSpace(u.DisplayName); n != "" {
		return n
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	return "User"
}

// Initial is the avatar letter.
func (u *User) Initial() string {
	r, _ := utf8.DecodeRuneInString(u.Name())
	return string(unicode.ToUpper(r))
}

// KV is the device-local store the session is kept in.
type KV interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

// Session holds the current user. Subscribers are called on every
// change, including sign-out (nil user).
type Session struct {
	mu     sync.Mutex
	user   *User
	subs   map[int]func(*User)
	nextID int
	kv     KV
	log    *zap.Logger
}

// NewSession restores a previously persisted user from kv. kv may be nil.
func NewSession(kv KV, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{subs: make(map[int]func(*User)), kv: kv, log: log.Named("session")}
	if kv != nil {
		var u User
		ok, err := kv.Get(localcache.KeySession, &u)
		switch {
		case err != nil:
			s.log.Warn("restore session", zap.Error(err))
		case ok && u.UID != "":
			s.user = &u
		}
	}
	return s
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Subscribe registers fn and calls it once with the current user. The
// returned func removes the subscription.
func (s *Session) Subscribe(fn func(*User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	fn(s.Current())
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) set(u *User) {
	s.mu.Lock()
	s.user = u
	fns := make([]func(*User), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	s.persist(u)
	cur := s.Current()
	for _, fn := range fns {
		fn(cur)
	}
}

func (s *Session) persist(u *User) {
	if s.kv == nil {
		return
	}
	var err error
	if u == nil {
		err = s.kv.Delete(localcache.KeySession)
	} else {
		err = s.kv.Set(localcache.KeySession, u)
	}
	if err != nil {
		s.log.Warn("persist session", zap.Error(err))
	}
}

// SignOut clears the session.
func (s *Session) SignOut() {
	s.log.Info("signed out")
	s.set(nil)
}
