// Package memory is an in-process implementation of the repositories. It keeps
// the guarantees the services rely on from Postgres: one exclusive lock per
// bank account held until the unit of work ends, writes that become visible
// only on commit, unique usernames, account numbers and scheme codes, and
// cascading deletes. It backs the service, handler and worker tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"mfportal/src/models"
	"mfportal/src/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ repositories.LedgerStore = (*Store)(nil)

// ErrCheckViolation mirrors a failed CHECK constraint.
var ErrCheckViolation = errors.New("check constraint violated")

type positionKey struct {
	userID   uint
	schemeID uint
}

type Store struct {
	mu sync.Mutex

	users        map[uint]models.User
	accounts     map[uint]models.BankAccount
	schemes      map[uint]models.MutualFundScheme
	portfolios   map[uint]models.Portfolio
	transactions map[uint]models.MFTransaction
	snapshots    map[uint]models.PortfolioSnapshot
	lastID       map[string]uint

	accountLocks map[uint]chan struct{}
	failures     map[string]error
	hooks        map[string]func(ctx context.Context)

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        map[uint]models.User{},
		accounts:     map[uint]models.BankAccount{},
		schemes:      map[uint]models.MutualFundScheme{},
		portfolios:   map[uint]models.Portfolio{},
		transactions: map[uint]models.MFTransaction{},
		snapshots:    map[uint]models.PortfolioSnapshot{},
		lastID:       map[string]uint{},
		accountLocks: map[uint]chan struct{}{},
		failures:     map[string]error{},
		hooks:        map[string]func(ctx context.Context){},
		now:          time.Now,
	}
}

// Operation names accepted by FailOn and OnOperation.
const (
	OpLockAccount    = "lock_account"
	OpUpdateBalance  = "update_balance"
	OpGetScheme      = "get_active_scheme"
	OpCreateTx       = "create_transaction"
	OpAddToPortfolio = "add_to_portfolio"
	OpCommit         = "commit"
)

// FailOn makes every later call of op inside WithTx return err. A nil err
// clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// OnOperation registers fn to run right after op succeeds inside WithTx. For
// OpLockAccount it runs while the lock is held.
func (s *Store) OnOperation(op string, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		delete(s.hooks, op)
		return
	}
	s.hooks[op] = fn
}

func (s *Store) failure(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[op]
}

func (s *Store) hook(ctx context.Context, op string) {
	s.mu.Lock()
	fn := s.hooks[op]
	s.mu.Unlock()
	if fn != nil {
		fn(ctx)
	}
}

// nextID must be called with mu held.
func (s *Store) nextID(table string) uint {
	s.lastID[table]++
	return s.lastID[table]
}

// accountLock must be called with mu held.
func (s *Store) accountLock(accountID uint) chan struct{} {
	lock, ok := s.accountLocks[accountID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.accountLocks[accountID] = lock
	}
	return lock
}

func (s *Store) Users() repositories.UserRepository {
	return &userRepo{s: s}
}

func (s *Store) BankAccounts() repositories.BankAccountRepository {
	return &bankAccountRepo{s: s}
}

func (s *Store) Schemes() repositories.SchemeRepository {
	return &schemeRepo{s: s}
}

func (s *Store) Portfolios() repositories.PortfolioRepository {
	return &portfolioRepo{s: s}
}

func (s *Store) Transactions() repositories.TransactionRepository {
	return &transactionRepo{s: s}
}

func (s *Store) Snapshots() repositories.SnapshotRepository {
	return &snapshotRepo{s: s}
}

// withUsername must be called with mu held.
func (s *Store) withUsername(a models.BankAccount) models.BankAccount {
	a.Username = s.users[a.UserID].Username
	return a
}

// positionWithScheme must be called with mu held.
func (s *Store) positionWithScheme(p models.Portfolio) models.PortfolioWithScheme {
	scheme := s.schemes[p.SchemeID]
	return models.PortfolioWithScheme{
		Portfolio:  p,
		SchemeName: scheme.Name,
		SchemeCode: scheme.SchemeCode,
		CurrentNAV: scheme.NAV,
	}
}

// transactionWithDetails must be called with mu held.
func (s *Store) transactionWithDetails(t models.MFTransaction) models.TransactionWithDetails {
	return models.TransactionWithDetails{
		MFTransaction: t,
		Username:      s.users[t.UserID].Username,
		SchemeName:    s.schemes[t.SchemeID].Name,
	}
}

// findPosition must be called with mu held.
func (s *Store) findPosition(key positionKey) (models.Portfolio, bool) {
	for _, p := range s.portfolios {
		if p.UserID == key.userID && p.SchemeID == key.schemeID {
			return p, true
		}
	}
	return models.Portfolio{}, false
}

// WithTx runs fn as one unit of work. Writes are staged on the unit and
// applied together on commit; every account lock taken inside fn is released
// when WithTx returns, including when fn panics.
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &ledgerTx{
		s:         s,
		held:      map[uint]chan struct{}{},
		accounts:  map[uint]models.BankAccount{},
		positions: map[positionKey]*stagedPosition{},
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.failure(OpCommit); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

func (s *Store) commit(tx *ledgerTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range tx.accounts {
		if _, ok := s.accounts[id]; ok {
			s.accounts[id] = a
		}
	}
	for _, t := range tx.transactions {
		s.transactions[t.ID] = t
	}
	for key, staged := range tx.positions {
		if p, ok := s.findPosition(key); ok {
			p.Units = p.Units.Add(staged.units)
			p.InvestedAmount = p.InvestedAmount.Add(staged.amount)
			p.UpdatedAt = staged.at
			s.portfolios[p.ID] = p
			continue
		}
		s.portfolios[staged.id] = models.Portfolio{
			ID:             staged.id,
			UserID:         key.userID,
			SchemeID:       key.schemeID,
			Units:          staged.units,
			InvestedAmount: staged.amount,
			CreatedAt:      staged.at,
			UpdatedAt:      staged.at,
		}
	}
	tx.committed = true
}

type stagedPosition struct {
	id     uint
	units  decimal.Decimal
	amount decimal.Decimal
	at     time.Time
}

type ledgerTx struct {
	s         *Store
	held      map[uint]chan struct{}
	accounts  map[uint]models.BankAccount
	positions map[positionKey]*stagedPosition

	transactions []models.MFTransaction
	committed    bool
	closed       bool
}

var errTxClosed = errors.New("unit of work already finished")

func (tx *ledgerTx) release() {
	tx.closed = true
	for _, lock := range tx.held {
		<-lock
	}
	tx.held = nil
}

func (tx *ledgerTx) check(op string) error {
	if tx.closed {
		return errTxClosed
	}
	return tx.s.failure(op)
}

func (tx *ledgerTx) lock(ctx context.Context, accountID uint) error {
	if _, ok := tx.held[accountID]; ok {
		return nil
	}
	tx.s.mu.Lock()
	lock := tx.s.accountLock(accountID)
	tx.s.mu.Unlock()

	select {
	case lock <- struct{}{}:
		tx.held[accountID] = lock
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (tx *ledgerTx) lockAccount(ctx context.Context, find func() (uint, bool)) (*models.BankAccount, error) {
	if err := tx.check(OpLockAccount); err != nil {
		return nil, err
	}
	tx.s.mu.Lock()
	id, ok := find()
	tx.s.mu.Unlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if err := tx.lock(ctx, id); err != nil {
		return nil, err
	}

	// the row may have changed while waiting for the lock
	tx.s.mu.Lock()
	account, ok := tx.s.accounts[id]
	if ok {
		account = tx.s.withUsername(account)
	}
	tx.s.mu.Unlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if staged, ok := tx.accounts[id]; ok {
		account = staged
	}
	tx.s.hook(ctx, OpLockAccount)
	return &account, nil
}

func (tx *ledgerTx) GetBankAccountByUserForUpdate(ctx context.Context, userID uint) (*models.BankAccount, error) {
	return tx.lockAccount(ctx, func() (uint, bool) {
		for id, a := range tx.s.accounts {
			if a.UserID == userID {
				return id, true
			}
		}
		return 0, false
	})
}

func (tx *ledgerTx) GetBankAccountByIDForUpdate(ctx context.Context, id uint) (*models.BankAccount, error) {
	return tx.lockAccount(ctx, func() (uint, bool) {
		_, ok := tx.s.accounts[id]
		return id, ok
	})
}

func (tx *ledgerTx) UpdateBankAccountBalance(ctx context.Context, account *models.BankAccount) error {
	if err := tx.check(OpUpdateBalance); err != nil {
		return err
	}
	if _, ok := tx.held[account.ID]; !ok {
		return fmt.Errorf("bank account %d updated without holding its lock", account.ID)
	}
	if account.Balance.IsNegative() {
		return fmt.Errorf("%w: balance >= 0", ErrCheckViolation)
	}
	account.UpdatedAt = tx.s.now()
	tx.accounts[account.ID] = *account
	tx.s.hook(ctx, OpUpdateBalance)
	return nil
}

func (tx *ledgerTx) GetActiveScheme(ctx context.Context, schemeID uint) (*models.MutualFundScheme, error) {
	if err := tx.check(OpGetScheme); err != nil {
		return nil, err
	}
	tx.s.mu.Lock()
	scheme, ok := tx.s.schemes[schemeID]
	tx.s.mu.Unlock()
	if !ok || !scheme.IsActive {
		return nil, repositories.ErrNotFound
	}
	tx.s.hook(ctx, OpGetScheme)
	return &scheme, nil
}

func (tx *ledgerTx) CreateTransaction(ctx context.Context, t *models.MFTransaction) error {
	if err := tx.check(OpCreateTx); err != nil {
		return err
	}
	if t.Reference == uuid.Nil {
		t.Reference = uuid.New()
	}
	tx.s.mu.Lock()
	t.ID = tx.s.nextID("mf_transactions")
	tx.s.mu.Unlock()
	t.TransactionDate = tx.s.now()
	tx.transactions = append(tx.transactions, *t)
	tx.s.hook(ctx, OpCreateTx)
	return nil
}

func (tx *ledgerTx) AddToPortfolio(ctx context.Context, userID, schemeID uint, units, amount decimal.Decimal) (*models.Portfolio, error) {
	if err := tx.check(OpAddToPortfolio); err != nil {
		return nil, err
	}
	key := positionKey{userID: userID, schemeID: schemeID}
	now := tx.s.now()

	tx.s.mu.Lock()
	current, exists := tx.s.findPosition(key)
	staged, ok := tx.positions[key]
	if !ok {
		staged = &stagedPosition{units: decimal.Zero, amount: decimal.Zero}
		if exists {
			staged.id = current.ID
		} else {
			staged.id = tx.s.nextID("portfolios")
		}
		tx.positions[key] = staged
	}
	tx.s.mu.Unlock()

	staged.units = staged.units.Add(units)
	staged.amount = staged.amount.Add(amount)
	staged.at = now

	result := models.Portfolio{
		ID:             staged.id,
		UserID:         userID,
		SchemeID:       schemeID,
		Units:          staged.units,
		InvestedAmount: staged.amount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if exists {
		result.Units = current.Units.Add(staged.units)
		result.InvestedAmount = current.InvestedAmount.Add(staged.amount)
		result.CreatedAt = current.CreatedAt
	}
	if result.Units.IsNegative() || result.InvestedAmount.IsNegative() {
		return nil, fmt.Errorf("%w: units >= 0 and invested_amount >= 0", ErrCheckViolation)
	}
	tx.s.hook(ctx, OpAddToPortfolio)
	return &result, nil
}

func sortByID[T any](items []T, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
