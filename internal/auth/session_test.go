package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimapped/optimapped/internal/localcache"
)

func TestUserName(t *testing.T) {
	tests := []struct {
		user    *User
		name    string
		initial string
	}{
		{&User{DisplayName: "ada lovelace", Email: "ada@example.com"}, "ada lovelace", "A"},
		{&User{Email: "grace@example.com"}, "grace", "G"},
		{&User{}, "User", "U"},
		{nil, "User", "U"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.user.Name())
		assert.Equal(t, tt.initial, tt.user.Initial())
	}
}

func TestSessionSubscribe(t *testing.T) {
	s := NewSession(nil, nil)

	var seen []*User
	unsubscribe := s.Subscribe(func(u *User) { seen = append(seen, u) })
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0], "subscriber sees the current state first")

	s.set(&User{UID: "u1", Email: "a@b.co"})
	require.Len(t, seen, 2)
	assert.Equal(t, "u1", seen[1].UID)

	s.SignOut()
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2])

	unsubscribe()
	s.set(&User{UID: "u2"})
	assert.Len(t, seen, 3)
}

func TestSessionPersists(t *testing.T) {
	dir := t.TempDir()
	kv, err := localcache.Open(dir)
	require.NoError(t, err)

	NewSession(kv, nil).set(&User{UID: "u1", Email: "a@b.co", Provider: ProviderPassword})

	kv2, err := localcache.Open(dir)
	require.NoError(t, err)
	restored := NewSession(kv2, nil)
	require.NotNil(t, restored.Current())
	assert.Equal(t, "u1", restored.Current().UID)

	restored.SignOut()
	kv3, err := localcache.Open(dir)
	require.NoError(t, err)
	assert.Nil(t, NewSession(kv3, nil).Current())
}

func TestPasswordHash(t *testing.T) {
	p := argonParams{time: 1, memory: 1024, threads: 1, keyLen: 32, saltLen: 16}
	h, err := hashPassword("hunter22", p)
	require.NoError(t, err)

	ok, err := verifyPassword("hunter22", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("hunter23", h)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = verifyPassword("x", "bcrypt$1$2")
	assert.Error(t, err)
}
