// Command hashpassword prints an argon2id hash for admin_password_hash and
// a fresh session key.
//
// Usage:
//
//	go run ./cmd/hashpassword
//	printf 'secret-pass\nsecret-pass\n' | go run ./cmd/hashpassword
package main

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dalemusser/linkcatalog/internal/app/system/passhash"
	"github.com/gorilla/securecookie"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	read := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimRight(sc.Text(), "\r"), nil
	}

	pw, err := read("Enter admin password: ")
	if err != nil {
		return err
	}
	confirm, err := read("Confirm password: ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	if pw != confirm {
		return errors.New("passwords do not match")
	}
	if len(pw) < passhash.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", passhash.MinPasswordLength)
	}

	hash, err := passhash.Hash(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return errors.New("could not generate a session key")
	}

	fmt.Fprintln(out, "Add these to your environment or .env file:")
	fmt.Fprintf(out, "LINKCATALOG_ADMIN_PASSWORD_HASH=%s\n", hash)
	fmt.Fprintf(out, "LINKCATALOG_SESSION_KEY=%s\n", base64.RawURLEncoding.EncodeToString(key))
	return nil
}
