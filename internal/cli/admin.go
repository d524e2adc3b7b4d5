package cli

import "context"

func (a *App) Users(ctx context.Context, _ []string) error {
	accounts := a.book.ListAllAccounts(ctx)
	if len(accounts) == 0 {
		a.println("No accounts.")
		return nil
	}
	for _, acc := range accounts {
		status := "Active"
		if !acc.Active {
			status = "Inactive"
		}
		a.printf("%d. %s (%s) - %s [%s]\n", acc.ID, acc.Username, acc.Email, acc.Role, status)
	}
	return nil
}

func (a *App) Activate(ctx context.Context, args []string) error {
	id, err := a.id(args, "Account ID to activate")
	if err != nil {
		return err
	}
	if a.book.Activate(ctx, id) {
		a.println("Account activated successfully!")
	} else {
		a.println("Error activating account!")
	}
	return nil
}

// Deactivate also ends every session of the account.
func (a *App) Deactivate(ctx context.Context, args []string) error {
	id, err := a.id(args, "Account ID to deactivate")
	if err != nil {
		return err
	}
	if a.book.Deactivate(ctx, id) {
		a.println("Account deactivated successfully!")
	} else {
		a.println("Error deactivating account!")
	}
	return nil
}
