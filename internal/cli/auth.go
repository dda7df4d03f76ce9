package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rlourenco/bicicletario/internal/common"
)

// report prints a command error in operator terms. Cancelled operations are
// acknowledged quietly; a persist failure warns that the change is only in
// memory.
func (a *App) report(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrCancelled):
		fmt.Fprintln(os.Stdout, "Cancelled.")
	case errors.Is(err, common.ErrPersistFailed):
		fmt.Fprintln(os.Stdout, "WARNING: the change was applied but could not be saved; it will be lost on restart.")
		a.log.Error(ctx, "persist failed", "error", err)
	case errors.Is(err, common.ErrPermissionDenied):
		fmt.Fprintln(os.Stdout, err.Error())
	case errors.Is(err, common.ErrValidation):
		fmt.Fprintln(os.Stdout, err.Error())
	case errors.Is(err, common.ErrInvalidLoginPassword):
		fmt.Fprintln(os.Stdout, "Invalid username or password.")
	case errors.Is(err, common.ErrTokenExpired):
		fmt.Fprintln(os.Stdout, "Session expired, please log in again.")
	default:
		fmt.Fprintln(os.Stdout, "Error:", err.Error())
		a.log.Error(ctx, "command failed", "error", err)
	}
	return err
}

// Login asks for credentials, obtains a session token and installs its
// permission gate. A failed login leaves any previous session intact.
func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return a.report(ctx, err)
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return a.report(ctx, err)
	}

	token, err := a.auth.Login(userName, password)
	for i := range password {
		password[i] = 0
	}
	if err != nil {
		return a.report(ctx, err)
	}

	gate, err := a.auth.Gate(token)
	if err != nil {
		return a.report(ctx, err)
	}

	a.session.set(gate)
	a.userName = gate.UserName()
	a.log.Info(ctx, "operator logged in", "user", a.userName)
	fmt.Fprintf(os.Stdout, "Logged in as %s.\n", a.userName)
	return nil
}

// Logout drops the session gate; every capability check fails until the
// next login.
func (a *App) Logout(ctx context.Context) error {
	a.session.set(nil)
	a.userName = ""
	a.log.Info(ctx, "operator logged out")
	fmt.Fprintln(os.Stdout, "Logged out.")
	return nil
}
