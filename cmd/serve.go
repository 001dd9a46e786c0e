package cmd

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/google/subcommands"
	"github.com/jls/billbook/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the record book over HTTP" }
func (*serveCmd) Usage() string {
	return `bbk serve [-addr <host:port>]

  Starts the HTTP API on top of the record book database.
`
}

func (p *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.addr, "addr", ":8080", "Listen address.")
}

func (p *serveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	log.Printf("Serving on %s", p.addr)
	if err := http.ListenAndServe(p.addr, server.New(s).Router()); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
