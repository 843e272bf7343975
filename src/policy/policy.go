// Package policy decides which caller may perform which operation. It is
// consulted at the start of every controller operation, before any service
// runs.
package policy

import (
	"fmt"

	"mfportal/src/models"
)

// Principal is the authenticated caller as supplied by the identity provider.
type Principal struct {
	UserID uint
	Role   models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type Action string

const (
	ViewSelf           Action = "view_self"
	ViewUsers          Action = "view_users"
	ManageUsers        Action = "manage_users"
	ViewSchemes        Action = "view_schemes"
	ManageSchemes      Action = "manage_schemes"
	UpdateNAV          Action = "update_nav"
	ViewBankAccount    Action = "view_bank_account"
	ManageBankAccount  Action = "manage_bank_account"
	UpdateBalance      Action = "update_balance"
	Purchase           Action = "purchase"
	ViewPortfolio      Action = "view_portfolio"
	ViewTransactions   Action = "view_transactions"
	ExportTransactions Action = "export_transactions"
	ViewSnapshots      Action = "view_snapshots"
	RunJobs            Action = "run_jobs"
)

type scope int

const (
	anyone scope = iota
	adminOnly
	ownerOrAdmin
)

var rules = map[Action]scope{
	ViewSelf:           anyone,
	ViewSchemes:        anyone,
	ViewUsers:          adminOnly,
	ManageUsers:        adminOnly,
	ManageSchemes:      adminOnly,
	UpdateNAV:          adminOnly,
	RunJobs:            adminOnly,
	ViewBankAccount:    ownerOrAdmin,
	ManageBankAccount:  ownerOrAdmin,
	UpdateBalance:      ownerOrAdmin,
	Purchase:           ownerOrAdmin,
	ViewPortfolio:      ownerOrAdmin,
	ViewTransactions:   ownerOrAdmin,
	ExportTransactions: ownerOrAdmin,
	ViewSnapshots:      ownerOrAdmin,
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(format string, args ...any) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

// Authorize checks whether p may perform action. owner is the user id the
// target resource belongs to; nil means the caller's own collection.
func Authorize(p Principal, action Action, owner *uint) Decision {
	if p.UserID == 0 || !p.Role.Valid() {
		return deny("caller is not authenticated")
	}
	rule, ok := rules[action]
	if !ok {
		return deny("unknown action %q", action)
	}

	switch rule {
	case anyone:
		return allow()
	case adminOnly:
		if p.IsAdmin() {
			return allow()
		}
		return deny("%s requires the %s role", action, models.RoleAdmin)
	case ownerOrAdmin:
		if p.IsAdmin() || owner == nil || *owner == p.UserID {
			return allow()
		}
		return deny("%s is only allowed on your own resources", action)
	}
	return deny("unhandled rule for %q", action)
}

// Owner is a small helper for passing resource owners inline.
func Owner(id uint) *uint {
	return &id
}
