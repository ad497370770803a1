//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"sync"

	"campus-chat/domain"
	"campus-chat/errors"

	"github.com/samber/lo"
)

type IUserRepository interface {
	CreateUser(email, name, passwordHash string, conn domain.ConnHandle) (*domain.Account, error)
	GetUserByEmail(email string) (*domain.Account, error)
	SetOnline(email string, conn domain.ConnHandle) error
	SetOffline(email string)
	JoinGroup(email, group string) error
	IsMember(email, group string) bool
	OnlineGroupMembers(group string) []Recipient
	Snapshot() []AccountSummary
}

// Recipient is a stable view of one online group member, taken under
// the repository lock and safe to use after the lock is released.
type Recipient struct {
	Email string
	Name  string
	Conn  domain.ConnHandle
}

// AccountSummary is a read-only projection used by the status endpoint.
type AccountSummary struct {
	Email  string
	Name   string
	Online bool
	Groups []string
}

// UserRepository holds every account for the process lifetime. A single
// lock guards the email index together with each account's online flag,
// connection handle and group memberships, so membership reads and the
// broadcast snapshot always observe consistent state.
type UserRepository struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	defaultGroup string
	log          *slog.Logger
}

func NewUserRepository(log *slog.Logger, defaultGroup string) IUserRepository {
	return &UserRepository{
		accounts:     make(map[string]*domain.Account),
		defaultGroup: defaultGroup,
		log:          log,
	}
}

// CreateUser stores a new account keyed by email. The duplicate check
// and the insert happen under one critical section, so two concurrent
// creates for the same email cannot both succeed. The account starts
// online, bound to the given connection, and joined to the default
// group.
func (u *UserRepository) CreateUser(email, name, passwordHash string, conn domain.ConnHandle) (*domain.Account, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.accounts[email]; exists {
		return nil, fmt.Errorf("%w: %s", errors.ErrDuplicateEmail, email)
	}

	account := &domain.Account{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Groups:       []string{u.defaultGroup},
		Online:       true,
		Conn:         conn,
	}
	u.accounts[email] = account
	u.log.Debug("account created", "email", email, "default_group", u.defaultGroup)
	return account, nil
}

func (u *UserRepository) GetUserByEmail(email string) (*domain.Account, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	account, ok := u.accounts[email]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownEmail, email)
	}
	return account, nil
}

// SetOnline marks the account online and points it at the given
// connection. A re-login from a second connection simply supersedes the
// previous handle; the older session keeps running until it notices its
// own connection is gone.
func (u *UserRepository) SetOnline(email string, conn domain.ConnHandle) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	account, ok := u.accounts[email]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownEmail, email)
	}
	account.Online = true
	account.Conn = conn
	return nil
}

// SetOffline is idempotent and ignores unknown emails.
func (u *UserRepository) SetOffline(email string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if account, ok := u.accounts[email]; ok {
		account.Online = false
	}
}

// JoinGroup extends the account's membership set. Groups are implicit:
// joining an unknown name is what brings it into existence. Membership
// only grows; there is no leave operation.
func (u *UserRepository) JoinGroup(email, group string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	account, ok := u.accounts[email]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownEmail, email)
	}
	if lo.Contains(account.Groups, group) {
		return fmt.Errorf("%w: %s", errors.ErrAlreadyGroupMember, group)
	}
	account.Groups = append(account.Groups, group)
	u.log.Debug("joined group", "email", email, "group", group)
	return nil
}

func (u *UserRepository) IsMember(email, group string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	account, ok := u.accounts[email]
	return ok && lo.Contains(account.Groups, group)
}

// OnlineGroupMembers returns a snapshot of every online member of the
// group. Broadcast delivery happens against this snapshot, outside the
// lock, so joins or disconnects during a fan-out only affect later
// broadcasts, never the in-flight one.
func (u *UserRepository) OnlineGroupMembers(group string) []Recipient {
	u.mu.RLock()
	defer u.mu.RUnlock()

	var recipients []Recipient
	for _, account := range u.accounts {
		if account.Online && lo.Contains(account.Groups, group) {
			recipients = append(recipients, Recipient{
				Email: account.Email,
				Name:  account.Name,
				Conn:  account.Conn,
			})
		}
	}
	return recipients
}

func (u *UserRepository) Snapshot() []AccountSummary {
	u.mu.RLock()
	defer u.mu.RUnlock()

	summaries := make([]AccountSummary, 0, len(u.accounts))
	for _, account := range u.accounts {
		summaries = append(summaries, AccountSummary{
			Email:  account.Email,
			Name:   account.Name,
			Online: account.Online,
			Groups: append([]string(nil), account.Groups...),
		})
	}
	return summaries
}
