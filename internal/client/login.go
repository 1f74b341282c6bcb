package client

import (
	"bytes"
	"fmt"

	"github.com/chzyer/readline"
	"github.com/mdouchement/timecapsule/pkg/libtc"
	"github.com/pkg/errors"
)

// Register creates an account on a timecapsule server and stores the session.
func Register() error {
	cfg, client, err := prompt()
	if err != nil {
		return err
	}

	name, err := readline.Line("Name: ")
	if err != nil {
		return errors.Wrap(err, "could not read name from stdin")
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}
	confirmation, err := readline.Password("Confirm password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}
	if !bytes.Equal(password, confirmation) {
		return errors.New("passwords do not match")
	}

	err = client.Register(cfg.Email, name, string(password))
	if err != nil {
		return errors.Wrap(err, "could not register")
	}

	return store(cfg, client)
}

// Login connects to a timecapsule server.
func Login() error {
	cfg, client, err := prompt()
	if err != nil {
		return err
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}

	err = client.Login(cfg.Email, string(password))
	if err != nil {
		return errors.Wrap(err, "could not login")
	}

	return store(cfg, client)
}

func prompt() (Config, libtc.Client, error) {
	cfg := Config{}

	endpoint, err := readline.Line("Endpoint: ")
	if err != nil {
		return cfg, nil, errors.Wrap(err, "could not read endpoint from stdin")
	}
	cfg.Endpoint = endpoint

	client, err := libtc.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return cfg, nil, errors.Wrap(err, "could not reach given endpoint")
	}

	cfg.Email, err = readline.Line("Email: ")
	if err != nil {
		return cfg, nil, errors.Wrap(err, "could not read email from stdin")
	}

	return cfg, client, nil
}

func store(cfg Config, client libtc.Client) error {
	user := client.User()
	cfg.UserID = user.ID
	cfg.Session = client.Session()

	fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Email)
	return Save(cfg)
}
