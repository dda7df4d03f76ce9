package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/models"
	"github.com/rlourenco/bicicletario/internal/register"
)

const editTimestampLayout = "2006-01-02 15:04"

func usageErr(usage string) error {
	return fmt.Errorf("%w: usage: %s", common.ErrValidation, usage)
}

// printEntry echoes the outcome of a mutation. The zero entry means the
// target id no longer existed and the operation was a no-op.
func printEntry(e models.Entry) {
	if e.ID == "" {
		fmt.Fprintln(os.Stdout, "Entry not found; nothing changed. Re-run 'list' for current ids.")
		return
	}
	out := "open"
	if e.ExitTimestamp != nil {
		out = e.ExitTimestamp.Format(editTimestampLayout)
	}
	fmt.Fprintf(os.Stdout, "%s  bike %s  in %s  out %s\n",
		e.ID, e.BikeID, e.EntryTimestamp.Format(editTimestampLayout), out)
}

// Open checks a client's bike in: open <client> <bike> [category].
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return a.report(ctx, usageErr("open <client> <bike> [category]"))
	}
	category := ""
	if len(args) > 2 {
		category = args[2]
	}
	e, err := a.svc.OpenEntry(ctx, args[0], args[1], category)
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}

// Checkout registers a normal exit: checkout <entry>.
func (a *App) Checkout(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(ctx, usageErr("checkout <entry>"))
	}
	e, err := a.svc.RegisterExit(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}

// Remove force-closes an open entry after a y/n confirmation.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(ctx, usageErr("remove <entry>"))
	}
	confirmed := Confirm(a.reader, "Remove access and close this entry?", os.Stdout)
	e, err := a.svc.RemoveAccess(ctx, args[0], confirmed)
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}

// Reopen reverts a closure after a y/n confirmation.
func (a *App) Reopen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(ctx, usageErr("reopen <entry>"))
	}
	confirmed := Confirm(a.reader, "Reopen this entry?", os.Stdout)
	e, err := a.svc.RevertClosure(ctx, args[0], confirmed)
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}

// Edit interactively replaces an entry's client, bike, category and
// timestamps: edit <entry>. An empty exit timestamp leaves the entry open.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(ctx, usageErr("edit <entry>"))
	}

	clientID, err := GetSimpleText(a.reader, "Client id", os.Stdout)
	if err != nil {
		return a.report(ctx, err)
	}
	bikeID, err := GetSimpleText(a.reader, "Bike id", os.Stdout)
	if err != nil {
		return a.report(ctx, err)
	}
	category, err := GetSimpleText(a.reader, "Category (empty keeps current)", os.Stdout)
	if err != nil {
		return a.report(ctx, err)
	}
	entryTS, err := a.promptTimestamp("Entry time (yyyy-mm-dd hh:mm)", true)
	if err != nil {
		return a.report(ctx, err)
	}
	exitTS, err := a.promptTimestamp("Exit time (yyyy-mm-dd hh:mm, empty = open)", false)
	if err != nil {
		return a.report(ctx, err)
	}

	e, err := a.svc.EditEntry(ctx, register.EditEntryParams{
		EntryID:        args[0],
		ClientID:       clientID,
		BikeID:         bikeID,
		Category:       category,
		EntryTimestamp: *entryTS,
		ExitTimestamp:  exitTS,
	})
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}

func (a *App) promptTimestamp(prompt string, required bool) (*time.Time, error) {
	s, err := GetSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return nil, err
	}
	if s == "" {
		if required {
			return nil, fmt.Errorf("%w: a timestamp is required", common.ErrValidation)
		}
		return nil, nil
	}
	t, err := time.ParseInLocation(editTimestampLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: expected yyyy-mm-dd hh:mm", common.ErrValidation)
	}
	return &t, nil
}

// Swap moves an open entry to another of the client's bikes:
// swap <entry> <bike>.
func (a *App) Swap(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.report(ctx, usageErr("swap <entry> <bike>"))
	}
	e, err := a.svc.ReassignBike(ctx, args[0], args[1])
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}

// Bikes lists the client's bikes that have no open entry: bikes <client>.
func (a *App) Bikes(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(ctx, usageErr("bikes <client>"))
	}
	bikes, err := a.svc.AvailableBikes(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}
	if len(bikes) == 0 {
		fmt.Fprintln(os.Stdout, "No available bikes.")
		return nil
	}
	for _, b := range bikes {
		fmt.Fprintf(os.Stdout, "%s  %s %s (%s)\n", b.ID, b.Brand, b.Model, b.Color)
	}
	return nil
}

// Companion opens a second entry sharing the base entry's check-in time:
// companion <entry> <bike>.
func (a *App) Companion(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.report(ctx, usageErr("companion <entry> <bike>"))
	}
	e, err := a.svc.AddCompanionBike(ctx, args[0], args[1])
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}

// Overnight chains an open entry into the next day after a y/n confirmation.
func (a *App) Overnight(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(ctx, usageErr("overnight <entry>"))
	}
	confirmed := Confirm(a.reader, "Keep this bike overnight?", os.Stdout)
	e, err := a.svc.StartOvernight(ctx, args[0], confirmed)
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}

// CancelOvernight undoes an overnight chain after a y/n confirmation. It may
// be invoked with either side of the pair.
func (a *App) CancelOvernight(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(ctx, usageErr("cancelovernight <entry>"))
	}
	confirmed := Confirm(a.reader, "Cancel the overnight stay?", os.Stdout)
	e, err := a.svc.RevertOvernight(ctx, args[0], confirmed)
	if err != nil {
		return a.report(ctx, err)
	}
	printEntry(e)
	return nil
}
