// Package policy decides which operations an account may perform and which
// hour logs it may see. Every route consults it through one middleware.
package policy

import (
	"fmt"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
)

type Operation string

const (
	OpViewSession   Operation = "session.view"
	OpListAccounts  Operation = "accounts.list"
	OpCreateAccount Operation = "accounts.create"
	OpUpdateAccount Operation = "accounts.update"
	OpListHourLogs  Operation = "hour_logs.list"
	OpCreateHourLog Operation = "hour_logs.create"
	OpReviewHourLog Operation = "hour_logs.review"
)

var allowedRoles = map[Operation][]models.AccountRole{
	OpViewSession:   {models.AccountRoleAdmin, models.AccountRoleStaff},
	OpListAccounts:  {models.AccountRoleAdmin},
	OpCreateAccount: {models.AccountRoleAdmin},
	OpUpdateAccount: {models.AccountRoleAdmin},
	OpListHourLogs:  {models.AccountRoleAdmin, models.AccountRoleStaff},
	OpCreateHourLog: {models.AccountRoleAdmin, models.AccountRoleStaff},
	OpReviewHourLog: {models.AccountRoleAdmin},
}

// DeniedError is returned when a resolved account lacks the role an
// operation requires.
type DeniedError struct {
	Op     Operation
	Role   models.AccountRole
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s denied for role %q: %s", e.Op, e.Role, e.Reason)
}

func (e *DeniedError) Unwrap() error {
	return apperr.ErrForbidden
}

// Authorize returns nil when account may perform op.
func Authorize(account models.Account, op Operation) error {
	roles, ok := allowedRoles[op]
	if !ok {
		return &DeniedError{Op: op, Role: account.Role, Reason: "unknown operation"}
	}
	for _, role := range roles {
		if account.Role == role {
			return nil
		}
	}
	return &DeniedError{Op: op, Role: account.Role, Reason: "insufficient role"}
}

// ScopeHourLogs narrows filter to what account may see. Staff accounts are
// pinned to their own logs whatever staff id they asked for.
func ScopeHourLogs(account models.Account, filter repository.HourLogFilter) repository.HourLogFilter {
	if account.IsAdmin() {
		return filter
	}
	own := account.ID
	filter.StaffID = &own
	return filter
}

// OwnerOf is the account id a newly created hour log belongs to.
func OwnerOf(account models.Account) int64 {
	return account.ID
}
