package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"runtime"
	"strings"

	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/server"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "timecapsule",
		Short:   "Time capsule server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	c.PersistentFlags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)
	c.AddCommand(reindexCmd)
	c.AddCommand(serverCmd)
	c.AddCommand(rmuserCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load(cfg)
			if err != nil {
				return err
			}

			return database.StormInit(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load(cfg)
			if err != nil {
				return err
			}

			return database.StormReIndex(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load(cfg)
			if err != nil {
				return err
			}

			db, err := database.StormOpen(dbnameWithPath(konf.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine := server.EchoEngine(server.IOC{
				Version:                    version,
				Database:                   db,
				NoRegistration:             konf.Bool("no_registration"),
				AccessTokenExpirationTime:  konf.Duration("session.access_token_ttl"),
				RefreshTokenExpirationTime: konf.Duration("session.refresh_token_ttl"),
				SoonThresholdDays:          konf.Int("capsule.soon_threshold_days"),
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			message := "could not run server"
			log.Printf("Server listening on %s\n", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					log.Printf("Removing existing %s\n", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}

	//
	//
	rmuserCmd = &coral.Command{
		Use:   "rmuser EMAIL",
		Short: "Remove a user and everything it owns from the database",
		Args:  coral.ExactArgs(1),
		RunE: func(_ *coral.Command, args []string) error {
			konf, err := load(cfg)
			if err != nil {
				return err
			}

			filename := dbnameWithPath(konf.String("database_path"))
			fmt.Println("Opening", filename)
			db, err := database.StormOpen(filename)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			return removeUser(db, args[0])
		},
	}
)
