package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jtracey93/spond-payment-reporting/internal/config"
	"github.com/jtracey93/spond-payment-reporting/pkg/spond"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// autoCredentials logs in with email and password and fills creds from the
// resulting token and club list. The password is used for this one login
// and never written anywhere.
func autoCredentials(ctx context.Context, in io.Reader, client *spond.Client, creds *config.Credentials) error {
	reader := bufio.NewReader(in)

	fmt.Println("Automated Credential Gathering")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("Warning: automated authentication is experimental and unofficial.")
	fmt.Println("It may break if Spond changes their authentication system.")
	fmt.Println()

	email, err := ask(reader, "Enter your Spond email: ")
	if err != nil {
		return err
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	password, err := askPassword(reader, "Enter your Spond password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	fmt.Println()
	fmt.Println("Authenticating with Spond...")
	token, err := client.Auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Println("Authentication successful!")

	fmt.Println("Fetching your clubs...")
	clubs, err := client.Auth.Clubs(ctx)
	if err != nil {
		return err
	}
	if len(clubs) == 0 {
		return fmt.Errorf("no clubs found for your account")
	}

	club := clubs[0]
	if len(clubs) > 1 {
		club, err = chooseClub(reader, clubs)
		if err != nil {
			return err
		}
	}
	if club.Identifier() == "" {
		return fmt.Errorf("club ID not found in club data")
	}

	fmt.Printf("Using club: %s (ID: %s)\n", club.DisplayName(), club.Identifier())

	creds.BearerToken = token
	creds.TokenSource = config.SourceLogin
	creds.ClubID = club.Identifier()
	creds.ClubSource = config.SourceLogin
	return nil
}

// chooseClub asks the user to pick one club from the list
func chooseClub(reader *bufio.Reader, clubs []*spond.Club) (*spond.Club, error) {
	fmt.Println()
	fmt.Println("Multiple clubs found. Please select one:")
	for i, club := range clubs {
		fmt.Printf("  %d. %s\n", i+1, club.DisplayName())
	}

	for {
		answer, err := ask(reader, fmt.Sprintf("\nSelect club (1-%d): ", len(clubs)))
		if err != nil {
			return nil, err
		}

		idx, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Println("Please enter a valid number.")
			continue
		}
		if idx < 1 || idx > len(clubs) {
			fmt.Println("Invalid selection. Please try again.")
			continue
		}
		return clubs[idx-1], nil
	}
}

// askPassword reads a password without echo when attached to a terminal,
// falling back to a plain line read otherwise.
func askPassword(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)

	if isatty.IsTerminal(os.Stdin.Fd()) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
