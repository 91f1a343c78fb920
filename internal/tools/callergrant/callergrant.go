// Package callergrant signs a caller token for local development.
package callergrant

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	entrypoint "github.com/louisbranch/provenance/internal/platform/cmd"
	"github.com/louisbranch/provenance/internal/services/provenance/callertoken"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
)

// Config holds caller token signing configuration.
type Config struct {
	Principal  string
	Issuer     string        `env:"CALLER_TOKEN_ISSUER"`
	Audience   string        `env:"CALLER_TOKEN_AUDIENCE"    envDefault:"provenance"`
	PrivateKey string        `env:"CALLER_TOKEN_PRIVATE_KEY"`
	TTL        time.Duration `env:"CALLER_TOKEN_TTL"         envDefault:"1h"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Principal, "principal", cfg.Principal, "caller principal to sign")
	fs.StringVar(&cfg.Issuer, "issuer", cfg.Issuer, "token issuer")
	fs.StringVar(&cfg.Audience, "audience", cfg.Audience, "token audience")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "token lifetime")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run signs a token and writes it to out.
func Run(cfg Config, out io.Writer, now func() time.Time) error {
	if out == nil {
		return errors.New("output is required")
	}
	caller, err := principal.Parse(cfg.Principal)
	if err != nil {
		return fmt.Errorf("principal: %w", err)
	}
	if cfg.PrivateKey == "" {
		return errors.New("PROVENANCE_CALLER_TOKEN_PRIVATE_KEY is required")
	}
	key, err := callertoken.DecodePrivateKey(cfg.PrivateKey)
	if err != nil {
		return err
	}
	token, err := callertoken.Sign(caller, callertoken.SignerConfig{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Key:      key,
		TTL:      cfg.TTL,
		Now:      now,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
