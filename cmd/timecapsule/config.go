package main

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/pkg/errors"
)

const (
	dbname    = "timecapsule.db"
	envprefix = "TIMECAPSULE_"
)

var defaults = map[string]any{
	"address":                     "localhost:5000",
	"database_path":               "",
	"database_codec":              database.DefaultCodec,
	"no_registration":             false,
	"session.access_token_ttl":    "1h",
	"session.refresh_token_ttl":   "720h",
	"capsule.soon_threshold_days": 7,
}

// load reads the configuration from the defaults, the given YAML file and then the environment.
// A .env file in the current directory populates the environment beforehand.
//
//	TIMECAPSULE_SESSION__ACCESS_TOKEN_TTL=2h => session.access_token_ttl
func load(filename string) (*koanf.Koanf, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "could not load .env")
	}

	konf := koanf.New(".")
	if err := konf.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, "could not load defaults")
	}

	if filename != "" {
		if err := konf.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "could not load %s", filename)
		}
	}

	err := konf.Load(env.Provider(envprefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envprefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load environment")
	}

	if err = database.UseCodec(konf.String("database_codec")); err != nil {
		return nil, err
	}

	for _, key := range []string{"session.access_token_ttl", "session.refresh_token_ttl"} {
		if konf.Duration(key) <= 0 {
			return nil, errors.Errorf("%s must be a positive duration", key)
		}
	}
	if konf.Duration("session.access_token_ttl") > konf.Duration("session.refresh_token_ttl") {
		return nil, errors.New("session.access_token_ttl must not exceed session.refresh_token_ttl")
	}

	return konf, nil
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}
