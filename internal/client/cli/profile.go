package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/saedev/sae-auth/internal/shared"
)

// Whoami fetches and prints the current account profile.
func (a *App) Whoami(ctx context.Context) error {
	user, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}

	a.user = user

	fmt.Printf("id:       %s\n", user.ID)
	fmt.Printf("username: %s\n", user.Username)
	fmt.Printf("email:    %s\n", user.Email)
	if user.Avatar != nil {
		fmt.Println("avatar:   set")
	}
	return nil
}

// UpdateProfile prompts for a new username and email. An empty answer
// keeps the current value.
func (a *App) UpdateProfile(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "New username (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "New email (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}

	var usernamePtr, emailPtr *string
	if username != "" {
		usernamePtr = &username
	}
	if email != "" {
		emailPtr = &email
	}

	user, err := a.api.UpdateProfile(ctx, usernamePtr, emailPtr)
	if err != nil {
		return err
	}

	a.user = user
	fmt.Println("Profile updated")
	return nil
}

// UpdatePassword prompts for the current and a new password and changes
// the account password. Both byte slices are wiped before returning.
func (a *App) UpdatePassword(ctx context.Context) error {
	current, err := getPassword(os.Stdout, "Current password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(current)

	newPassword, err := getPassword(os.Stdout, "New password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(newPassword)

	if err := a.api.UpdatePassword(ctx, current, newPassword); err != nil {
		return err
	}

	fmt.Println("Password updated")
	return nil
}

// UpdateAvatar prompts for an avatar value (a URL or a data URI) and
// stores it on the account.
func (a *App) UpdateAvatar(ctx context.Context) error {
	avatar, err := getSimpleText(a.reader, "Avatar (URL or data URI)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.UpdateAvatar(ctx, avatar); err != nil {
		return err
	}

	fmt.Println("Avatar updated")
	return nil
}
