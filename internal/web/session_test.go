package web

import (
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attrs(sel *goquery.Selection, name string) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.AttrOr(name, ""))
	})
	return out
}

func testSessions(ttl time.Duration) (*Sessions, *time.Time) {
	clock := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := NewSessions(ttl, func(id string) *Session { return &Session{ID: id} })
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestSessionsCreateKeepsValidID(t *testing.T) {
	s, _ := testSessions(time.Minute)

	id := uuid.New().String()
	assert.Equal(t, id, s.Create(id).ID)

	other := s.Create("not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", other.ID)
	_, err := uuid.Parse(other.ID)
	assert.NoError(t, err)

	assert.NotEmpty(t, s.Create("").ID)
	assert.Equal(t, 3, s.Len())
}

func TestSessionsExpire(t *testing.T) {
	s, clock := testSessions(time.Minute)

	sess := s.Create("")
	got, ok := s.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	*clock = clock.Add(30 * time.Second)
	_, ok = s.Get(sess.ID)
	assert.True(t, ok, "access renews the session")

	*clock = clock.Add(2 * time.Minute)
	_, ok = s.Get(sess.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestSessionsPrune(t *testing.T) {
	s, clock := testSessions(time.Minute)

	idle := s.Create("")
	*clock = clock.Add(45 * time.Second)
	active := s.Create("")
	*clock = clock.Add(30 * time.Second)

	assert.Equal(t, 1, s.Prune())
	_, ok := s.Get(idle.ID)
	assert.False(t, ok)
	_, ok = s.Get(active.ID)
	assert.True(t, ok)
}

func TestSessionClaimDraftOnce(t *testing.T) {
	sess := &Session{}
	assert.True(t, sess.claimDraft())
	assert.False(t, sess.claimDraft())
}

func TestNewRequiresAPI(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
