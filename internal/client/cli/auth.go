package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/saedev/sae-auth/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and attempts to
// create a new account.
//
// On success it prints the assigned account id and returns nil. The
// password byte slice is wiped before returning. Any I/O or API error
// is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	user, err := a.api.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Account created: %s\n", user.ID)
	return nil
}

// Login prompts for credentials and tries to authenticate. On success the
// bearer token is kept inside the API client and the account record is
// cached on the App for the prompt/status line.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	session, err := a.api.Login(ctx, email, password)
	if err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	}

	a.user = session.User
	log.Printf("Login successfull")
	return nil
}

// Logout drops the cached account and the bearer token.
func (a *App) Logout(ctx context.Context) error {
	a.user = nil
	a.api.SetToken("")
	return nil
}
