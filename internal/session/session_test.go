package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_LoadSaveDestroy(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	s := NewRedisStore(rdb, time.Hour)
	s.newTicket = func() (string, error) { return "t-1", nil }
	ctx := context.Background()

	mock.ExpectSet("session:t-1", `{"identityId":"guest_1","isGuest":true}`, time.Hour).SetVal("OK")
	ticket, err := s.Save(ctx, "", State{IdentityID: "guest_1", IsGuest: true})
	require.NoError(t, err)
	require.Equal(t, "t-1", ticket)

	mock.ExpectGet("session:t-1").SetVal(`{"identityId":"guest_1","isGuest":true}`)
	mock.ExpectExpire("session:t-1", time.Hour).SetVal(true)
	st, err := s.Load(ctx, "t-1")
	require.NoError(t, err)
	require.Equal(t, State{IdentityID: "guest_1", IsGuest: true}, st)

	mock.ExpectSet("session:t-1", `{"identityId":"u-9","isGuest":false}`, time.Hour).SetVal("OK")
	ticket, err = s.Save(ctx, "t-1", State{IdentityID: "u-9"})
	require.NoError(t, err)
	require.Equal(t, "t-1", ticket)

	mock.ExpectDel("session:t-1").SetVal(1)
	require.NoError(t, s.Destroy(ctx, "t-1"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Load_RefreshesTTL(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	s := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		mock.ExpectGet("session:t-2").SetVal(`{"identityId":"u-1","isGuest":false}`)
		mock.ExpectExpire("session:t-2", time.Minute).SetVal(true)
		st, err := s.Load(ctx, "t-2")
		require.NoError(t, err)
		require.Equal(t, "u-1", st.IdentityID)
	}

	mock.ExpectGet("session:t-2").SetVal(`{"identityId":"u-1","isGuest":false}`)
	mock.ExpectExpire("session:t-2", time.Minute).SetErr(errors.New("conn reset"))
	_, err := s.Load(ctx, "t-2")
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Load_MissingCorruptAndError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	s := NewRedisStore(rdb, 0)
	ctx := context.Background()

	st, err := s.Load(ctx, "")
	require.NoError(t, err)
	require.True(t, st.Empty())

	mock.ExpectGet("session:gone").RedisNil()
	st, err = s.Load(ctx, "gone")
	require.NoError(t, err)
	require.True(t, st.Empty())

	mock.ExpectGet("session:junk").SetVal("not-json")
	st, err = s.Load(ctx, "junk")
	require.NoError(t, err)
	require.True(t, st.Empty())

	mock.ExpectGet("session:down").SetErr(errors.New("conn refused"))
	_, err = s.Load(ctx, "down")
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_RoundTrip(t *testing.T) {
	s, err := NewTokenStore([]byte("secret"), time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	ticket, err := s.Save(ctx, "", State{IdentityID: "guest_abc", IsGuest: true})
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(ticket, "."))

	st, err := s.Load(ctx, ticket)
	require.NoError(t, err)
	require.Equal(t, State{IdentityID: "guest_abc", IsGuest: true}, st)
	require.NoError(t, s.Destroy(ctx, ticket))
}

func TestTokenStore_RejectsBadTickets(t *testing.T) {
	s, err := NewTokenStore([]byte("secret"), time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	other, _ := NewTokenStore([]byte("other"), time.Hour)
	forged, err := other.Save(ctx, "", State{IdentityID: "u-1"})
	require.NoError(t, err)

	expiredStore, _ := NewTokenStore([]byte("secret"), time.Hour)
	expiredStore.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	expired, err := expiredStore.Save(ctx, "", State{IdentityID: "u-1"})
	require.NoError(t, err)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{Subject: "u-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, ticket := range map[string]string{
		"forged":  forged,
		"expired": expired,
		"alg":     hs384,
		"garbage": "not-a-jwt",
	} {
		st, err := s.Load(ctx, ticket)
		require.NoError(t, err, name)
		require.True(t, st.Empty(), name)
	}

	_, err = NewTokenStore(nil, time.Hour)
	require.Error(t, err)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	ticket, err := s.Save(ctx, "", State{IdentityID: "guest_1", IsGuest: true})
	require.NoError(t, err)
	require.NotEmpty(t, ticket)

	st, _ := s.Load(ctx, ticket)
	require.Equal(t, "guest_1", st.IdentityID)

	now = now.Add(2 * time.Minute)
	st, _ = s.Load(ctx, ticket)
	require.True(t, st.Empty())

	ticket, _ = s.Save(ctx, ticket, State{IdentityID: "u-1"})
	require.NoError(t, s.Destroy(ctx, ticket))
	st, _ = s.Load(ctx, ticket)
	require.True(t, st.Empty())
}

func TestMemoryStore_LoadSlidesExpiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	ticket, err := s.Save(ctx, "", State{IdentityID: "guest_1", IsGuest: true})
	require.NoError(t, err)

	// Each read inside the window keeps the session alive past the original deadline.
	for i := 0; i < 3; i++ {
		now = now.Add(45 * time.Second)
		st, _ := s.Load(ctx, ticket)
		require.Equal(t, "guest_1", st.IdentityID)
	}

	now = now.Add(61 * time.Second)
	st, _ := s.Load(ctx, ticket)
	require.True(t, st.Empty())
}
