package cli

import (
	"context"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/models"
)

// Register prompts for username, email and a confirmed password and creates
// a regular account.
func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.newPassword("Password")
	if err != nil {
		return err
	}

	if a.book.Register(ctx, username, email, password, models.RoleUser) {
		a.println("Registration successful! Please login.")
	} else {
		a.println("Registration failed: email already exists or input is invalid.")
	}
	return nil
}

// Login prompts for credentials. A successful login replaces any current
// session.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.text(args, "Email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.book.Login(ctx, email, string(password)) {
		a.println("Email or password incorrect!")
		return nil
	}
	if acc := a.book.CurrentAccount(ctx); acc != nil {
		a.printf("Login successful! Welcome, %s.\n", acc.Username)
	}
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.book.Logout(ctx)
	a.println("Logged out successfully!")
	return nil
}

// Forgot issues a reset token for a registered, active email and prints it.
func (a *App) Forgot(ctx context.Context, args []string) error {
	email, err := a.text(args, "Registered email")
	if err != nil {
		return err
	}

	token, ok := a.book.RequestPasswordReset(ctx, email)
	if !ok {
		a.println("Email does not exist or account is deactivated!")
		return nil
	}
	a.println("Password reset request successful!")
	a.printf("Reset token: %s\n", token)
	a.println("Use it with the 'reset' command before it expires.")
	return nil
}

// Reset checks a reset token first, then asks for the new password.
func (a *App) Reset(ctx context.Context, args []string) error {
	token, err := a.text(args, "Reset token")
	if err != nil {
		return err
	}
	if !a.book.ValidateResetToken(ctx, token) {
		a.println("Invalid or expired token!")
		return nil
	}

	password, err := a.newPassword("New password")
	if err != nil {
		return err
	}

	if a.book.ResetPassword(ctx, token, password) {
		a.println("Password reset successful! Please login again.")
	} else {
		a.println("Error resetting password!")
	}
	return nil
}

// Profile updates username and email; a blank answer keeps the current value.
func (a *App) Profile(ctx context.Context, _ []string) error {
	acc := a.book.CurrentAccount(ctx)
	if acc == nil {
		a.println("Please login first.")
		return nil
	}

	a.printf("Username: %s\nEmail: %s\n", acc.Username, acc.Email)
	a.println("Enter new values (leave blank to keep current).")

	username, err := GetSimpleText(a.reader, "New username ["+acc.Username+"]", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "New email ["+acc.Email+"]", a.out)
	if err != nil {
		return err
	}

	var u models.ProfileUpdate
	if username != "" && username != acc.Username {
		u.Username = &username
	}
	if email != "" && email != acc.Email {
		u.Email = &email
	}
	if u.Username == nil && u.Email == nil {
		a.println("No changes made.")
		return nil
	}

	if a.book.UpdateProfile(ctx, u) {
		a.println("Profile updated successfully!")
	} else {
		a.println("Error updating profile! The email may already be in use.")
	}
	return nil
}
