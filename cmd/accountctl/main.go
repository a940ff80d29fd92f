// accountctl manages accounts directly against the configured database:
// applying the schema, bootstrapping the first admin, listing accounts,
// resetting passwords and loading the sample staff roster.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/config"
	"github.com/Nahomatnafu/dj-event-management/internal/database"
	"github.com/Nahomatnafu/dj-event-management/internal/log"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

const usage = `usage: accountctl <command> [flags]

commands:
  migrate        apply the database schema
  create         create an account (--email --password --name --role [--category] [--status])
  list           list accounts
  set-password   replace an account's password (--email --password)
  seed           create the sample roster (--admin-password --staff-password)
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, openPostgres); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// backend is what a command needs from storage. migrate is nil when the
// backend has no schema to apply.
type backend struct {
	accounts service.AccountStore
	migrate  func(ctx context.Context) error
	hash     func(string) ([]byte, error)
	close    func()
}

type opener func(ctx context.Context, logger zerolog.Logger) (backend, error)

func openPostgres(ctx context.Context, logger zerolog.Logger) (backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return backend{}, err
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return backend{}, fmt.Errorf("accountctl needs the postgres storage driver, configured driver is %q", cfg.Storage.Driver)
	}
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return backend{}, err
	}
	logger.Debug().Msg("connected to postgres")
	return backend{
		accounts: repository.NewAccountRepository(pool),
		migrate:  func(ctx context.Context) error { return database.Migrate(ctx, pool) },
		close:    pool.Close,
	}, nil
}

func run(ctx context.Context, args []string, out io.Writer, open opener) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(out, usage)
		return nil
	}

	command, rest := args[0], args[1:]
	flagSet := pflag.NewFlagSet("accountctl "+command, pflag.ContinueOnError)
	flagSet.SetOutput(out)
	verbose := flagSet.BoolP("verbose", "v", false, "log at debug level")

	var (
		email, password, name, role, category, status string
		adminPassword, staffPassword                  string
	)
	switch command {
	case "migrate", "list":
	case "create":
		flagSet.StringVar(&email, "email", "", "account email")
		flagSet.StringVar(&password, "password", "", "initial password (at least 8 characters)")
		flagSet.StringVar(&name, "name", "", "display name")
		flagSet.StringVar(&role, "role", string(models.AccountRoleStaff), "admin or staff")
		flagSet.StringVar(&category, "category", "", "DJ, Videographer or Photographer")
		flagSet.StringVar(&status, "status", "", "active or inactive")
	case "set-password":
		flagSet.StringVar(&email, "email", "", "account email")
		flagSet.StringVar(&password, "password", "", "new password (at least 8 characters)")
	case "seed":
		flagSet.StringVar(&adminPassword, "admin-password", "", "password for the admin account")
		flagSet.StringVar(&staffPassword, "staff-password", "", "password shared by the staff accounts")
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", command)
	}

	if err := flagSet.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := log.NewWithWriter(os.Stderr, "cli", level)

	b, err := open(ctx, logger)
	if err != nil {
		return err
	}
	if b.close != nil {
		defer b.close()
	}
	accounts := service.NewAccountService(b.accounts, logger)
	if b.hash != nil {
		accounts.WithHasher(b.hash)
	}

	switch command {
	case "migrate":
		if b.migrate == nil {
			return errors.New("storage backend has no schema to migrate")
		}
		if err := b.migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "schema applied")
		return nil
	case "create":
		a, err := accounts.Create(ctx, service.CreateAccountInput{
			Email: email, Password: password, Name: name, Role: role, ServiceCategory: category, Status: status,
		})
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(out, "created account %d (%s, %s)\n", a.ID, a.Email, a.Role)
		return nil
	case "list":
		list, err := accounts.List(ctx)
		if err != nil {
			return err
		}
		return printAccounts(out, list)
	case "set-password":
		a, err := b.accounts.FindByEmail(ctx, service.NormalizeEmail(email))
		if err != nil {
			return describe(err)
		}
		if _, err := accounts.Update(ctx, a.ID, service.UpdateAccountInput{Password: &password}); err != nil {
			return describe(err)
		}
		fmt.Fprintf(out, "password updated for %s\n", a.Email)
		return nil
	default:
		return seed(ctx, out, accounts, adminPassword, staffPassword)
	}
}

func printAccounts(out io.Writer, accounts []models.Account) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tCATEGORY\tSTATUS")
	for _, a := range accounts {
		category := "-"
		if a.ServiceCategory != nil {
			category = string(*a.ServiceCategory)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Email, a.Name, a.Role, category, a.Status)
	}
	return w.Flush()
}

// describe turns service errors into operator-readable messages.
func describe(err error) error {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("--%s %s", flagFor(verr.Field), verr.Message)
	case errors.Is(err, apperr.ErrConflict):
		return errors.New("an account with that email already exists")
	case errors.Is(err, apperr.ErrNotFound):
		return errors.New("no account with that email")
	}
	return err
}

func flagFor(field string) string {
	if field == "serviceCategory" {
		return "category"
	}
	return field
}
