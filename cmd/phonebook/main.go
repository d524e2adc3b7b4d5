package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/phonebook/internal/app"
	"github.com/dmitrijs2005/phonebook/internal/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:], ".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	a, err := app.NewApp(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Application startup error: %v\n", err)
		os.Exit(1)
	}

	a.EnsureAdmin(ctx)

	if err := a.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Thank you for using the system!")
}
