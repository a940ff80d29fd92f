package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

type rosterEntry struct {
	email    string
	name     string
	role     models.AccountRole
	category models.ServiceCategory
}

var roster = []rosterEntry{
	{"admin@completeweddings.com", "Admin User", models.AccountRoleAdmin, ""},
	{"sarah.johnson@completeweddings.com", "Sarah Johnson", models.AccountRoleStaff, models.ServiceCategoryDJ},
	{"mike.chen@completeweddings.com", "Mike Chen", models.AccountRoleStaff, models.ServiceCategoryVideographer},
	{"emily.rodriguez@completeweddings.com", "Emily Rodriguez", models.AccountRoleStaff, models.ServiceCategoryPhotographer},
	{"david.kim@completeweddings.com", "David Kim", models.AccountRoleStaff, models.ServiceCategoryDJ},
	{"jessica.martinez@completeweddings.com", "Jessica Martinez", models.AccountRoleStaff, models.ServiceCategoryVideographer},
	{"tom.wilson@completeweddings.com", "Tom Wilson", models.AccountRoleStaff, models.ServiceCategoryPhotographer},
}

// seed creates the sample roster. Accounts that already exist are skipped so
// the command can be re-run.
func seed(ctx context.Context, out io.Writer, accounts *service.AccountService, adminPassword, staffPassword string) error {
	if adminPassword == "" || staffPassword == "" {
		return errors.New("--admin-password and --staff-password are required")
	}

	created := 0
	for _, entry := range roster {
		password := staffPassword
		if entry.role == models.AccountRoleAdmin {
			password = adminPassword
		}
		_, err := accounts.Create(ctx, service.CreateAccountInput{
			Email:           entry.email,
			Password:        password,
			Name:            entry.name,
			Role:            string(entry.role),
			ServiceCategory: string(entry.category),
		})
		switch {
		case errors.Is(err, apperr.ErrConflict):
			fmt.Fprintf(out, "skipped %s (exists)\n", entry.email)
		case err != nil:
			return fmt.Errorf("seed %s: %w", entry.email, describe(err))
		default:
			created++
		}
	}

	fmt.Fprintf(out, "seeded %d of %d accounts\n", created, len(roster))
	return nil
}
