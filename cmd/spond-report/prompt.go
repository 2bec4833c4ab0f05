package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jtracey93/spond-payment-reporting/internal/config"
)

// promptForCredentials fills in whatever is missing from creds by asking the
// user, using saved config values as defaults. It offers to save the club ID
// and, separately and defaulting to no, the bearer token.
func promptForCredentials(in io.Reader, store *config.Store, cfg *config.Config, creds *config.Credentials) error {
	reader := bufio.NewReader(in)

	if creds.BearerToken == "" {
		if cfg.BearerToken != "" {
			use, err := askYesNo(reader, "Use saved bearer token?", true)
			if err != nil {
				return err
			}
			if use {
				creds.BearerToken = cfg.BearerToken
				creds.TokenSource = config.SourceFile
				fmt.Println("Using saved bearer token")
			}
		}
		if creds.BearerToken == "" {
			token, err := ask(reader, "Enter your Spond Bearer Token: ")
			if err != nil {
				return err
			}
			creds.BearerToken = token
		}
	}

	if creds.ClubID == "" {
		if cfg.ClubID != "" {
			clubID, err := ask(reader, fmt.Sprintf("Enter your Spond Club ID [%s]: ", cfg.ClubID))
			if err != nil {
				return err
			}
			if clubID == "" {
				clubID = cfg.ClubID
				fmt.Printf("Using saved club ID: %s\n", clubID)
			}
			creds.ClubID = clubID
		} else {
			clubID, err := ask(reader, "Enter your Spond Club ID: ")
			if err != nil {
				return err
			}
			creds.ClubID = clubID
		}
	}

	if creds.BearerToken == "" || creds.ClubID == "" {
		return fmt.Errorf("bearer token and club ID are required")
	}

	// Offer to save when the club ID is new or changed
	if cfg.ClubID != creds.ClubID {
		save, err := askYesNo(reader, "Save club ID for future use?", true)
		if err != nil {
			return err
		}
		if save {
			saveToken, err := askYesNo(reader, "Save bearer token too? (NOT recommended for security)", false)
			if err != nil {
				return err
			}

			newCfg := &config.Config{ClubID: creds.ClubID}
			if saveToken {
				newCfg.BearerToken = creds.BearerToken
				fmt.Println("Warning: bearer token saved to config file. Keep this file secure!")
			}
			if err := store.Save(newCfg); err != nil {
				return err
			}
			fmt.Printf("Configuration saved to: %s\n", store.Path())
		}
	}

	return nil
}

func ask(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func askYesNo(reader *bufio.Reader, label string, def bool) (bool, error) {
	hint := "(y/n) [n]"
	if def {
		hint = "(y/n) [y]"
	}

	answer, err := ask(reader, fmt.Sprintf("%s %s: ", label, hint))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
