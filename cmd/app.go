// Package cmd implements the CLI application to manage the record book.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/jls/billbook/store"
)

// Register the subcommands.
// A main package calls Register() and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&newCmd{}, "records")
	c.Register(&approveCmd{}, "records")
	c.Register(&rejectCmd{}, "records")
	c.Register(&activateCmd{}, "records")
	c.Register(&payCmd{}, "records")
	c.Register(&adjustCmd{}, "records")
	c.Register(&settleCmd{}, "records")

	c.Register(&scheduleCmd{}, "reports")
	c.Register(&dueCmd{}, "reports")
	c.Register(&ledgerCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")

	c.Register(&partnerCmd{}, "company")
	c.Register(&expenseCmd{}, "company")

	c.Register(&serveCmd{}, "server")
	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dbPath = flag.String("db", "billbook.db", "Path to the record book database")
var currency = flag.String("currency", "INR", "Currency for amounts given on the command line")

// openStore opens the application database.
func openStore() (*store.Store, error) {
	return store.Open(*dbPath)
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails (e.g. no usable terminal profile).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
