package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateGet(t *testing.T) {
	st := NewStore(time.Hour)

	s := st.Create()
	assert.Equal(t, StateIdle, s.State)

	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, s.ID, got.ID)

	_, ok = st.Get(uuid.New())
	assert.False(t, ok)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create()

	got, _ := st.Get(s.ID)
	got.GeneratedEmail = "changed"

	again, _ := st.Get(s.ID)
	assert.Empty(t, again.GeneratedEmail)
}

func TestStore_SaveAndDo(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create()

	s.GeneratedEmail = "hello"
	s.EmailGenerated = true
	s.State = StateExtracted
	st.Save(s)

	updated, ok := st.Do(s.ID, func(stored *Session) {
		assert.Equal(t, "hello", stored.GeneratedEmail)
		stored.Reset()
	})
	require.True(t, ok)
	assert.Equal(t, StateIdle, updated.State)
	assert.Empty(t, updated.GeneratedEmail)

	_, ok = st.Do(uuid.New(), func(*Session) { t.Fatal("must not run for unknown sessions") })
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create()

	st.Delete(s.ID)
	_, ok := st.Get(s.ID)
	assert.False(t, ok)
	assert.Zero(t, st.Len())
}

func TestStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	st := NewStore(time.Hour)
	st.now = func() time.Time { return now }

	idle := st.Create()
	active := st.Create()

	now = now.Add(50 * time.Minute)
	_, ok := st.Get(active.ID)
	require.True(t, ok)

	now = now.Add(20 * time.Minute)
	_, ok = st.Get(idle.ID)
	assert.False(t, ok)
	_, ok = st.Get(active.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, st.Len())
}

func TestStore_DoSerializesPerSession(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Do(s.ID, func(stored *Session) {
				stored.Links = append(stored.Links, "x")
			})
		}()
	}
	wg.Wait()

	got, _ := st.Get(s.ID)
	assert.Len(t, got.Links, 50)
}

func TestNewStore_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewStore(0).ttl)
}

func TestSession_TakeNotices(t *testing.T) {
	s := New()
	s.notify(NoticeInfo, "one")
	s.notify(NoticeError, "two")

	notices := s.TakeNotices()
	assert.Len(t, notices, 2)
	assert.Empty(t, s.Notices)
	assert.Empty(t, s.TakeNotices())
}
