/*
Tsiserver starts the tsiemene control-plane server and begins listening for
new connections.

Usage:

	tsiserver [flags]
	tsiserver [flags] -l [[ADDRESS]:PORT]

Once started, tsiserver will listen for HTTP requests and respond to them
using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config via environment var). The
flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the IP address preceeded by a colon, such as
":6001".

If a JWT token secret is not given, one will be automatically generated and
seeded with crypto/rand. As a consequence, in this mode of operation all
tokens are rendered invalid as soon as the server shuts down. This is
suitable for testing, but must be given via either CLI flags or environment
variable if running in production.

The flags are:

	-v, --version
		Give the current version of the tsiserver control plane and then
		exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable TSISERVER_LISTEN_ADDRESS, and if that is not given, will
		default to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing session tokens. If there are
		less than 32 bytes in the secret, it will be repeated until it is.
		The maximum size is 64 bytes. If not given, will default to the
		value of environment variable TSISERVER_TOKEN_SECRET. If no secret
		is specified or an empty secret is given, a random secret will be
		automatically generated. Note that any tokens issued with a random
		secret will become invalid as soon as the server shuts down.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs
		the path to the data directory, such as sqlite:path/to/db_dir. If
		not given, will default to the value of environment variable
		TSISERVER_DATABASE. If no DB driver is specified or an empty one is
		given, an in-memory database is automatically selected.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/cuwacunu/tsiemene/internal/version"
	"github.com/cuwacunu/tsiemene/server"
	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/cuwacunu/tsiemene/server/serr"
	"github.com/cuwacunu/tsiemene/server/tunas"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "TSISERVER_LISTEN_ADDRESS"
	EnvSecret = "TSISERVER_TOKEN_SECRET"
	EnvDB     = "TSISERVER_DATABASE"
)

const (
	ExitSuccess   = 0
	ExitInitError = 1
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of tsiserver and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("tsiserver %s (tsiemene engine v%s)\n", version.Server, version.Engine)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitInitError)
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}
	if _, _, err := net.SplitHostPort(listenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(ExitInitError)
	}

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		dbConnStr = "inmem"
	}
	dbCfg, err := server.ParseDBConnString(dbConnStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitInitError)
	}

	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}

	var tokSecret []byte
	if tokSecStr != "" {
		tokSecret = []byte(tokSecStr)

		for len(tokSecret) < server.MinSecretSize {
			doubled := make([]byte, len(tokSecret)*2)
			copy(doubled, tokSecret)
			copy(doubled[len(tokSecret):], tokSecret)
			tokSecret = doubled
		}

		if len(tokSecret) > server.MaxSecretSize {
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(tokSecret), server.MaxSecretSize)
			os.Exit(ExitInitError)
		}
	} else {
		tokSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err)
			os.Exit(ExitInitError)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	cfg := server.Config{
		TokenSecret: tokSecret,
		DB:          dbCfg,
	}.FillDefaults()

	db, err := cfg.DB.Connect()
	if err != nil {
		log.Fatalf("FATAL could not connect to DB: %s", err)
	}

	// seed an initial admin user through the same store the server will
	// serve requests from, so this works for DatabaseInMemory too.
	backend := tunas.Service{DB: db}
	_, err = backend.CreateUser(context.Background(), "admin", "password", "bogus@example.com", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(2)
	}
	if err == nil {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}

	srv, err := server.NewWithStore(cfg, db)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err)
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	log.Printf("INFO  Starting tsiserver %s on %s...", version.Server, listenAddr)
	if err := http.ListenAndServe(listenAddr, srv); err != nil {
		log.Fatalf("FATAL server exited: %s", err)
	}
}
