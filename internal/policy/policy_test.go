package policy

import (
	"errors"
	"testing"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
)

func TestAuthorize(t *testing.T) {
	admin := models.Account{ID: 1, Role: models.AccountRoleAdmin}
	staff := models.Account{ID: 2, Role: models.AccountRoleStaff}

	cases := []struct {
		op         Operation
		adminAllow bool
		staffAllow bool
	}{
		{OpViewSession, true, true},
		{OpListAccounts, true, false},
		{OpCreateAccount, true, false},
		{OpUpdateAccount, true, false},
		{OpListHourLogs, true, true},
		{OpCreateHourLog, true, true},
		{OpReviewHourLog, true, false},
	}

	for _, tc := range cases {
		if got := Authorize(admin, tc.op) == nil; got != tc.adminAllow {
			t.Errorf("admin %s: allowed=%v, want %v", tc.op, got, tc.adminAllow)
		}
		err := Authorize(staff, tc.op)
		if got := err == nil; got != tc.staffAllow {
			t.Errorf("staff %s: allowed=%v, want %v", tc.op, got, tc.staffAllow)
		}
		if err != nil && !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("staff %s: expected ErrForbidden, got %v", tc.op, err)
		}
	}
}

func TestAuthorizeUnknownRoleAndOperation(t *testing.T) {
	odd := models.Account{ID: 3, Role: "auditor"}
	if err := Authorize(odd, OpListHourLogs); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("unknown role: expected forbidden, got %v", err)
	}

	admin := models.Account{ID: 1, Role: models.AccountRoleAdmin}
	var denied *DeniedError
	if err := Authorize(admin, "hour_logs.delete"); !errors.As(err, &denied) || denied.Reason != "unknown operation" {
		t.Fatalf("unknown operation: got %v", err)
	}
}

func TestScopeHourLogs(t *testing.T) {
	other := int64(99)
	requested := repository.HourLogFilter{StaffID: &other, Status: models.HourLogStatusPending}

	staff := models.Account{ID: 5, Role: models.AccountRoleStaff}
	scoped := ScopeHourLogs(staff, requested)
	if scoped.StaffID == nil || *scoped.StaffID != 5 {
		t.Fatalf("staff scope must pin own id, got %v", scoped.StaffID)
	}
	if scoped.Status != models.HourLogStatusPending {
		t.Fatal("other predicates must be kept")
	}
	if *requested.StaffID != 99 {
		t.Fatal("caller's filter must not be mutated")
	}

	noStaff := ScopeHourLogs(staff, repository.HourLogFilter{})
	if noStaff.StaffID == nil || *noStaff.StaffID != 5 {
		t.Fatal("staff scope applies without a requested staff id")
	}

	admin := models.Account{ID: 1, Role: models.AccountRoleAdmin}
	if got := ScopeHourLogs(admin, requested); got.StaffID == nil || *got.StaffID != 99 {
		t.Fatal("admin keeps requested staff id")
	}
	if got := ScopeHourLogs(admin, repository.HourLogFilter{}); got.StaffID != nil {
		t.Fatal("admin without staff id sees all owners")
	}
}

func TestOwnerOf(t *testing.T) {
	if OwnerOf(models.Account{ID: 12}) != 12 {
		t.Fatal("owner must be the caller")
	}
}
