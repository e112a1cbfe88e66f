package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/common"
	"github.com/dmitrijs2005/gophstorage/internal/humanx"
)

// getSimpleText, getPassword, getMultiline and getConfirm are indirections
// used to facilitate testing. They point to interactive input helpers and can
// be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getConfirm    = Confirm
)

var errAlreadyLoggedIn = errors.New("already logged in, log out first")

// Register prompts for a name, an email and a password and creates the
// account. It does not sign in: the user logs in afterwards, as in the web
// dashboard.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	a.printf("Account created for %s. You can now log in.\n", u.UserEmail)
	return nil
}

// Login prompts for credentials and signs in. On success the gallery and
// dashboard are loaded. A failed login prints the server's message as is.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		return errAlreadyLoggedIn
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.session.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			return fmt.Errorf("server unavailable: %w", err)
		}
		return err
	}

	a.printf("Logged in as %s\n", displayName(s.UserName, s.UserEmail))
	a.page = 1
	a.loadAll(ctx)
	a.printSummary()
	return nil
}

// Logout forgets the persisted session. No server call is made.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.page = 1
	a.printf("Logged out\n")
	return nil
}

// WhoAmI prints the signed-in identity.
func (a *App) WhoAmI(ctx context.Context) error {
	s := a.session.Session()
	if s == nil {
		return client.ErrNotAuthenticated
	}

	a.printf("Name:  %s\nEmail: %s\nID:    %s\n", s.UserName, s.UserEmail, s.UserID)
	if !s.ExpiresAt.IsZero() {
		a.printf("Token expires: %s %s\n", humanx.Date(s.ExpiresAt), s.ExpiresAt.Format("15:04"))
	}
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
