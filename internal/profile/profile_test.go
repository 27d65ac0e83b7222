package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(t *testing.T, identity domain.Author) *Service {
	t.Helper()
	st, err := store.NewStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, identity, adapter.NullLogger())
}

func TestSetAvatar_AcceptedForms(t *testing.T) {
	p := newProfile(t, domain.Author{})

	for _, uri := range []string{
		"https://example.com/me.png",
		"http://cdn.example.com/a.jpg",
		"file:///home/sam/me.jpg",
		"content://media/external/images/42",
	} {
		t.Run(uri, func(t *testing.T) {
			got, err := p.SetAvatar(uri)
			require.NoError(t, err)
			assert.Equal(t, uri, got)
			stored, ok := p.Avatar()
			assert.True(t, ok)
			assert.Equal(t, uri, stored)
		})
	}
}

func TestSetAvatar_LocalPath(t *testing.T) {
	p := newProfile(t, domain.Author{})
	path := filepath.Join(t.TempDir(), "me.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0644))

	got, err := p.SetAvatar(path)
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(path), got)
	assert.True(t, p.HasAvatar())
}

func TestSetAvatar_Rejects(t *testing.T) {
	p := newProfile(t, domain.Author{})

	for _, loc := range []string{
		"",
		"   ",
		"ftp://example.com/a.png",
		"https:///nohost.png",
		filepath.Join(t.TempDir(), "missing.png"),
		t.TempDir(),
	} {
		_, err := p.SetAvatar(loc)
		assert.ErrorIs(t, err, domain.ErrInvalidAvatar, loc)
	}
	assert.False(t, p.HasAvatar())
}

func TestAuthor_PrefersStoredAvatar(t *testing.T) {
	p := newProfile(t, domain.Author{UserID: "u1", UserName: "sam", AvatarURL: "https://example.com/default.png"})

	assert.Equal(t, "https://example.com/default.png", p.Author().AvatarURL)

	_, err := p.SetAvatar("https://example.com/new.png")
	require.NoError(t, err)
	a := p.Author()
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "sam", a.UserName)
	assert.Equal(t, "https://example.com/new.png", a.AvatarURL)

	require.NoError(t, p.ClearAvatar())
	assert.False(t, p.HasAvatar())
	assert.Equal(t, "https://example.com/default.png", p.Author().AvatarURL)
}

func TestAuthor_NoAvatar(t *testing.T) {
	p := newProfile(t, domain.Author{UserName: "sam"})
	_, ok := p.Avatar()
	assert.False(t, ok)
	assert.Empty(t, p.Author().AvatarURL)
}
