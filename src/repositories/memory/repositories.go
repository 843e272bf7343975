package memory

import (
	"context"
	"sort"

	"mfportal/src/models"
	"mfportal/src/repositories"

	"github.com/shopspring/decimal"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sortByID(users, func(u models.User) uint { return u.ID })
	return users, nil
}

func (r *userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

// usernameTaken must be called with mu held.
func (r *userRepo) usernameTaken(username string, except uint) bool {
	for id, u := range r.s.users {
		if id != except && u.Username == username {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.usernameTaken(u.Username, 0) {
		return repositories.ErrConflict
	}
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	u.ID = r.s.nextID("users")
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[u.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.usernameTaken(u.Username, u.ID) {
		return repositories.ErrConflict
	}
	u.CreatedAt = current.CreatedAt
	u.UpdatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.users, id)
	for accountID, a := range r.s.accounts {
		if a.UserID == id {
			delete(r.s.accounts, accountID)
		}
	}
	for pid, p := range r.s.portfolios {
		if p.UserID == id {
			delete(r.s.portfolios, pid)
		}
	}
	for tid, t := range r.s.transactions {
		if t.UserID == id {
			delete(r.s.transactions, tid)
		}
	}
	for sid, snap := range r.s.snapshots {
		if snap.UserID == id {
			delete(r.s.snapshots, sid)
		}
	}
	return nil
}

type bankAccountRepo struct {
	s *Store
}

func (r *bankAccountRepo) List(_ context.Context) ([]models.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	accounts := make([]models.BankAccount, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		accounts = append(accounts, r.s.withUsername(a))
	}
	sortByID(accounts, func(a models.BankAccount) uint { return a.ID })
	return accounts, nil
}

func (r *bankAccountRepo) GetByID(_ context.Context, id uint) (*models.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	a = r.s.withUsername(a)
	return &a, nil
}

func (r *bankAccountRepo) GetByUserID(_ context.Context, userID uint) (*models.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.accounts {
		if a.UserID == userID {
			a = r.s.withUsername(a)
			return &a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// conflicts must be called with mu held.
func (r *bankAccountRepo) conflicts(a *models.BankAccount) bool {
	for id, other := range r.s.accounts {
		if id == a.ID {
			continue
		}
		if other.UserID == a.UserID || other.AccountNumber == a.AccountNumber {
			return true
		}
	}
	return false
}

func (r *bankAccountRepo) Create(_ context.Context, a *models.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[a.UserID]; !ok {
		return repositories.ErrNotFound
	}
	if r.conflicts(a) {
		return repositories.ErrConflict
	}
	if a.Balance.IsNegative() {
		return ErrCheckViolation
	}
	a.ID = r.s.nextID("bank_accounts")
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	r.s.accounts[a.ID] = *a
	return nil
}

// UpdateDetails leaves the balance alone.
func (r *bankAccountRepo) UpdateDetails(_ context.Context, a *models.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.accounts[a.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	probe := *a
	probe.UserID = current.UserID
	if r.conflicts(&probe) {
		return repositories.ErrConflict
	}
	current.AccountNumber = a.AccountNumber
	current.IFSCCode = a.IFSCCode
	current.BankName = a.BankName
	current.UpdatedAt = r.s.now()
	r.s.accounts[a.ID] = current
	a.UpdatedAt = current.UpdatedAt
	return nil
}

type schemeRepo struct {
	s *Store
}

func (r *schemeRepo) List(_ context.Context, activeOnly bool) ([]models.MutualFundScheme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	schemes := []models.MutualFundScheme{}
	for _, scheme := range r.s.schemes {
		if activeOnly && !scheme.IsActive {
			continue
		}
		schemes = append(schemes, scheme)
	}
	sort.Slice(schemes, func(i, j int) bool { return schemes[i].Name < schemes[j].Name })
	return schemes, nil
}

func (r *schemeRepo) GetByID(_ context.Context, id uint) (*models.MutualFundScheme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	scheme, ok := r.s.schemes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &scheme, nil
}

// conflicts must be called with mu held.
func (r *schemeRepo) conflicts(s *models.MutualFundScheme) bool {
	for id, other := range r.s.schemes {
		if id != s.ID && (other.Name == s.Name || other.SchemeCode == s.SchemeCode) {
			return true
		}
	}
	return false
}

func (r *schemeRepo) Create(_ context.Context, s *models.MutualFundScheme) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflicts(s) {
		return repositories.ErrConflict
	}
	s.ID = r.s.nextID("mutual_fund_schemes")
	s.CreatedAt = r.s.now()
	s.UpdatedAt = s.CreatedAt
	r.s.schemes[s.ID] = *s
	return nil
}

func (r *schemeRepo) Update(_ context.Context, s *models.MutualFundScheme) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.schemes[s.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.conflicts(s) {
		return repositories.ErrConflict
	}
	s.CreatedAt = current.CreatedAt
	s.UpdatedAt = r.s.now()
	r.s.schemes[s.ID] = *s
	return nil
}

func (r *schemeRepo) UpdateNAV(_ context.Context, id uint, nav decimal.Decimal) (*models.MutualFundScheme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	scheme, ok := r.s.schemes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	scheme.NAV = nav
	scheme.UpdatedAt = r.s.now()
	r.s.schemes[id] = scheme
	return &scheme, nil
}

func (r *schemeRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.schemes[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.schemes, id)
	for pid, p := range r.s.portfolios {
		if p.SchemeID == id {
			delete(r.s.portfolios, pid)
		}
	}
	for tid, t := range r.s.transactions {
		if t.SchemeID == id {
			delete(r.s.transactions, tid)
		}
	}
	return nil
}

type portfolioRepo struct {
	s *Store
}

func (r *portfolioRepo) filter(keep func(models.Portfolio) bool) []models.PortfolioWithScheme {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	positions := []models.PortfolioWithScheme{}
	for _, p := range r.s.portfolios {
		if keep(p) {
			positions = append(positions, r.s.positionWithScheme(p))
		}
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].UserID != positions[j].UserID {
			return positions[i].UserID < positions[j].UserID
		}
		return positions[i].ID < positions[j].ID
	})
	return positions
}

func (r *portfolioRepo) List(_ context.Context) ([]models.PortfolioWithScheme, error) {
	return r.filter(func(models.Portfolio) bool { return true }), nil
}

func (r *portfolioRepo) ListByUser(_ context.Context, userID uint) ([]models.PortfolioWithScheme, error) {
	return r.filter(func(p models.Portfolio) bool { return p.UserID == userID }), nil
}

func (r *portfolioRepo) GetByID(_ context.Context, id uint) (*models.PortfolioWithScheme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.portfolios[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	position := r.s.positionWithScheme(p)
	return &position, nil
}

func (r *portfolioRepo) ListUserIDs(_ context.Context) ([]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[uint]bool{}
	var ids []uint
	for _, p := range r.s.portfolios {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type transactionRepo struct {
	s *Store
}

func (r *transactionRepo) filter(keep func(models.MFTransaction) bool) []models.TransactionWithDetails {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	transactions := []models.TransactionWithDetails{}
	for _, t := range r.s.transactions {
		if keep(t) {
			transactions = append(transactions, r.s.transactionWithDetails(t))
		}
	}
	// newest first, id breaks ties
	sort.Slice(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.After(b.TransactionDate)
		}
		return a.ID > b.ID
	})
	return transactions
}

func (r *transactionRepo) List(_ context.Context) ([]models.TransactionWithDetails, error) {
	return r.filter(func(models.MFTransaction) bool { return true }), nil
}

func (r *transactionRepo) ListByUser(_ context.Context, userID uint) ([]models.TransactionWithDetails, error) {
	return r.filter(func(t models.MFTransaction) bool { return t.UserID == userID }), nil
}

func (r *transactionRepo) GetByID(_ context.Context, id uint) (*models.TransactionWithDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.transactions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	details := r.s.transactionWithDetails(t)
	return &details, nil
}

type snapshotRepo struct {
	s *Store
}

func sameDay(a, b models.PortfolioSnapshot) bool {
	return a.SnapshotDate.Format("2006-01-02") == b.SnapshotDate.Format("2006-01-02")
}

func (r *snapshotRepo) Upsert(_ context.Context, snap *models.PortfolioSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, existing := range r.s.snapshots {
		if existing.UserID == snap.UserID && sameDay(existing, *snap) {
			snap.ID = id
			snap.CreatedAt = existing.CreatedAt
			r.s.snapshots[id] = *snap
			return nil
		}
	}
	snap.ID = r.s.nextID("portfolio_snapshots")
	snap.CreatedAt = r.s.now()
	r.s.snapshots[snap.ID] = *snap
	return nil
}

func (r *snapshotRepo) ListByUser(_ context.Context, userID uint) ([]models.PortfolioSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshots := []models.PortfolioSnapshot{}
	for _, snap := range r.s.snapshots {
		if snap.UserID == userID {
			snapshots = append(snapshots, snap)
		}
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].SnapshotDate.After(snapshots[j].SnapshotDate) })
	return snapshots, nil
}
