package client

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chzyer/readline"
	sargon2 "github.com/mdouchement/simple-argon2"
	"github.com/mdouchement/timecapsule/pkg/libtc"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const saltKeyLength = 16

var (
	credentialsfile = ".timecapsule"
	readPassphrase  = func() ([]byte, error) {
		return readline.Password("passphrase: ")
	}
)

// A Config holds client's configuration.
type Config struct {
	Endpoint string        `json:"endpoint"`
	Email    string        `json:"email"`
	UserID   string        `json:"user_id"`
	Session  libtc.Session `json:"session"`

	passphrase []byte
}

// Remove removes the credential files from the current directory.
func Remove() error {
	return os.Remove(credentialsfile)
}

// Load gets the configuration from the current folder according to `credentialsfile` var.
func Load() (Config, error) {
	fmt.Println("Loading credentials from " + credentialsfile)
	cfg := Config{}

	ciphertext, err := os.ReadFile(credentialsfile)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read credentials file")
	}

	passphrase, err := readPassphrase()
	if err != nil {
		return cfg, errors.Wrap(err, "could not read passphrase from stdin")
	}

	payload, err := decrypt(ciphertext, passphrase)
	if err != nil {
		return cfg, err
	}

	err = json.Unmarshal(payload, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "could not parse config")
	}
	cfg.passphrase = passphrase

	return cfg, nil
}

// Save stores the configuration in the current folder according to `credentialsfile` var.
// The passphrase is only asked when cfg has not been loaded from disk.
func Save(cfg Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "could not serialize config")
	}

	passphrase := cfg.passphrase
	if passphrase == nil {
		fmt.Println("Storing credentials in current directory as " + credentialsfile)
		passphrase, err = readPassphrase()
		if err != nil {
			return errors.Wrap(err, "could not read passphrase from stdin")
		}
	}

	ciphertext, err := encrypt(payload, passphrase)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(credentialsfile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", credentialsfile)
	}
	defer f.Close()

	_, err = f.Write(ciphertext)
	if err != nil {
		return errors.Wrap(err, "could not store credentials")
	}

	return errors.Wrap(f.Sync(), "could not store credentials")
}

// Refresh refreshes the session if needed.
func Refresh(client libtc.Client, cfg *Config) error {
	switch cfg.Session.State(time.Now()) {
	case libtc.SessionValid:
		return nil
	case libtc.SessionExpired, libtc.SessionUndefined:
		return errors.New("session expired, please login again")
	}

	fmt.Println("Refreshing the session")

	session, err := client.RefreshSession()
	if err != nil {
		return errors.Wrap(err, "could not refresh session")
	}
	cfg.Session = session

	err = Save(*cfg)
	return errors.Wrap(err, "could not save refreshed session")
}

// connect loads the configuration and returns a client bound to the stored session.
func connect() (libtc.Client, *Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not load config")
	}

	client, err := libtc.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not reach timecapsule endpoint")
	}

	if !cfg.Session.Defined() {
		return nil, nil, errors.New("session is not defined, please login")
	}
	client.SetSession(cfg.Session)

	if err = Refresh(client, &cfg); err != nil {
		return nil, nil, err
	}
	return client, &cfg, nil
}

// persist stores the session when the client refreshed it on its own.
func persist(client libtc.Client, cfg *Config) error {
	session := client.Session()
	if session.AccessToken == cfg.Session.AccessToken || !session.Defined() {
		return nil
	}

	cfg.Session = session
	return errors.Wrap(Save(*cfg), "could not save refreshed session")
}

////////////////////
//                //
// Cipher         //
//                //
////////////////////

func key(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 3, 64<<10, 2, chacha20poly1305.KeySize)
}

// encrypt returns salt || nonce || ciphertext.
func encrypt(payload, passphrase []byte) ([]byte, error) {
	salt, err := sargon2.GenerateRandomBytes(saltKeyLength)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate salt for credentials")
	}

	aead, err := chacha20poly1305.NewX(key(passphrase, salt))
	if err != nil {
		return nil, errors.Wrap(err, "could not create AEAD")
	}
	nonce, err := sargon2.GenerateRandomBytes(uint32(aead.NonceSize()))
	if err != nil {
		return nil, errors.Wrap(err, "could not generate nonce for credentials")
	}

	ciphertext := aead.Seal(nil, nonce, payload, nil)
	ciphertext = append(nonce, ciphertext...)
	return append(salt, ciphertext...), nil
}

func decrypt(ciphertext, passphrase []byte) ([]byte, error) {
	if len(ciphertext) < saltKeyLength+chacha20poly1305.NonceSizeX {
		return nil, errors.New("credentials file is truncated")
	}

	salt := ciphertext[:saltKeyLength]
	ciphertext = ciphertext[saltKeyLength:]

	aead, err := chacha20poly1305.NewX(key(passphrase, salt))
	if err != nil {
		return nil, errors.Wrap(err, "could not create AEAD")
	}

	nonce := ciphertext[:aead.NonceSize()]
	ciphertext = ciphertext[aead.NonceSize():]

	payload, err := aead.Open(nil, nonce, ciphertext, nil)
	return payload, errors.Wrap(err, "could not decrypt credentials file")
}
