// Command hash-generator prints password hashes in the format the accounts
// API stores, for seeding accounts by hand. Passwords are read one per line
// from stdin when none are given as arguments.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/service/auth"
)

func main() {
	algo := flag.String("algo", "bcrypt", "hash algorithm: bcrypt or argon2id")
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *algo, *cost, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, algo string, cost int, passwords []string) error {
	hasher, err := auth.NewPasswordHasher(config.AuthConfig{
		PasswordHasher: algo,
		BcryptCost:     cost,
	})
	if err != nil {
		return err
	}

	if len(passwords) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}

	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fmt.Fprintln(out, hash)
	}
	return nil
}
