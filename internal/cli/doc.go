// Package cli provides the interactive phonebook front-end.
//
// It is a thin read-eval-print loop over a phonebook Book: it prompts for
// input, performs the checks that belong to a form (required phone number,
// password confirmation) and prints what the Book reports. Every other
// decision is made behind the Book.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends.
package cli
