package repositories

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"campus-chat/errors"

	"github.com/stretchr/testify/require"
)

type fakeConn struct{}

func (fakeConn) SendPrintMessage(string, string) error { return nil }

func newTestUserRepository() IUserRepository {
	return NewUserRepository(slog.Default(), "CMPS")
}

func Test_CreateUser_And_Duplicates(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	account, err := repo.CreateUser("a@x.com", "Alice", "digest", fakeConn{})
	req.NoError(err)
	req.True(account.Online)
	req.Equal([]string{"CMPS"}, account.Groups)

	_, err = repo.CreateUser("a@x.com", "Alya", "digest2", fakeConn{})
	req.ErrorIs(err, errors.ErrDuplicateEmail)
}

func Test_Concurrent_Creates_Same_Email_Exactly_One_Wins(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	const callers = 16
	var successes atomic.Int32
	var duplicates atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.CreateUser("same@x.com", "Someone", "digest", fakeConn{})
			switch {
			case err == nil:
				successes.Add(1)
			default:
				req.ErrorIs(err, errors.ErrDuplicateEmail)
				duplicates.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	req.EqualValues(1, successes.Load())
	req.EqualValues(callers-1, duplicates.Load())
}

func Test_Concurrent_Creates_Distinct_Emails_All_Succeed(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := repo.CreateUser(fmt.Sprintf("user%d@x.com", n), "Someone", "digest", fakeConn{})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		req.NoError(err)
	}
}

func Test_GetUserByEmail_Unknown(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	_, err := repo.GetUserByEmail("nobody@x.com")
	req.ErrorIs(err, errors.ErrUnknownEmail)
}

func Test_JoinGroup_Twice(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	_, err := repo.CreateUser("a@x.com", "Alice", "digest", fakeConn{})
	req.NoError(err)

	req.NoError(repo.JoinGroup("a@x.com", "CMPS340"))
	err = repo.JoinGroup("a@x.com", "CMPS340")
	req.ErrorIs(err, errors.ErrAlreadyGroupMember)

	account, err := repo.GetUserByEmail("a@x.com")
	req.NoError(err)
	req.Equal([]string{"CMPS", "CMPS340"}, account.Groups)
}

func Test_Default_Group_Counts_As_Membership(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	_, err := repo.CreateUser("a@x.com", "Alice", "digest", fakeConn{})
	req.NoError(err)

	req.True(repo.IsMember("a@x.com", "CMPS"))
	req.False(repo.IsMember("a@x.com", "CMPS340"))
	req.False(repo.IsMember("nobody@x.com", "CMPS"))

	err = repo.JoinGroup("a@x.com", "CMPS")
	req.ErrorIs(err, errors.ErrAlreadyGroupMember)
}

func Test_OnlineGroupMembers_Excludes_Offline_And_Outsiders(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	_, err := repo.CreateUser("a@x.com", "Alice", "digest", fakeConn{})
	req.NoError(err)
	_, err = repo.CreateUser("b@x.com", "Bob", "digest", fakeConn{})
	req.NoError(err)
	_, err = repo.CreateUser("c@x.com", "Clara", "digest", fakeConn{})
	req.NoError(err)

	req.NoError(repo.JoinGroup("a@x.com", "CMPS340"))
	req.NoError(repo.JoinGroup("b@x.com", "CMPS340"))
	repo.SetOffline("b@x.com")

	recipients := repo.OnlineGroupMembers("CMPS340")
	req.Len(recipients, 1)
	req.Equal("a@x.com", recipients[0].Email)

	req.Empty(repo.OnlineGroupMembers("CMPS999"))
}

func Test_SetOffline_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	_, err := repo.CreateUser("a@x.com", "Alice", "digest", fakeConn{})
	req.NoError(err)

	repo.SetOffline("a@x.com")
	repo.SetOffline("a@x.com")
	repo.SetOffline("nobody@x.com")

	account, err := repo.GetUserByEmail("a@x.com")
	req.NoError(err)
	req.False(account.Online)
}

func Test_SetOnline_Refreshes_Connection_Handle(t *testing.T) {
	req := require.New(t)
	repo := newTestUserRepository()

	first := fakeConn{}
	_, err := repo.CreateUser("a@x.com", "Alice", "digest", first)
	req.NoError(err)
	repo.SetOffline("a@x.com")

	second := &struct{ fakeConn }{}
	req.NoError(repo.SetOnline("a@x.com", second))

	account, err := repo.GetUserByEmail("a@x.com")
	req.NoError(err)
	req.True(account.Online)
	req.Same(second, account.Conn)

	req.ErrorIs(repo.SetOnline("nobody@x.com", second), errors.ErrUnknownEmail)
}
