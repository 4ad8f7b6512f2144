// lanternctl is the operator's and developer's client for the lanternhack
// HTTP API.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lanternhq/lanternhack/internal/client"
	"github.com/lanternhq/lanternhack/internal/server/auth"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var (
	serverURL string
	token     string
)

func apiClient() *client.Client {
	t := token
	if t == "" {
		t = os.Getenv("LANTERN_TOKEN")
	}
	return client.New(serverURL, t)
}

func newStationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stations [id]",
		Short: "List stations and their signal values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := apiClient()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid station id %q", args[0])
				}
				station, err := c.Station(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Printf("%d\t%s\tactive=%v\tsignal=%d\n",
					station.ID, station.Name, station.IsActive, station.SignalValue)
				return nil
			}

			list, err := c.Stations(cmd.Context())
			if err != nil {
				return err
			}
			for _, station := range list {
				fmt.Printf("%d\t%s\tactive=%v\tsignal=%d\n",
					station.ID, station.Name, station.IsActive, station.SignalValue)
			}
			return nil
		},
	}
}

func newChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <station-id>",
		Short: "Request a hack challenge for a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid station id %q", args[0])
			}

			challenge, err := apiClient().RequestChallenge(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("station %d, %d tries left\n", challenge.StationID, challenge.TriesLeft)
			fmt.Printf("target: %s (password type %s, char %q at position %d)\n",
				challenge.UserName, challenge.PasswordType,
				challenge.PasswordHint.Character, challenge.PasswordHint.Index)
			fmt.Println("candidate passwords:")
			for _, p := range challenge.Passwords {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}
}

func newGuessCmd() *cobra.Command {
	var cut bool

	cmd := &cobra.Command{
		Use:   "guess <password>",
		Short: "Submit a guess for the active challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient().SubmitGuess(cmd.Context(), args[0], !cut)
			if err != nil {
				return err
			}

			if result.Success {
				direction := "boosted"
				if !result.Boosting {
					direction = "cut"
				}
				fmt.Printf("access granted, signal %s\n", direction)
				return nil
			}

			if result.Matches != nil {
				fmt.Printf("access denied, %d character(s) matched, %d tries left\n",
					result.Matches.Amount, result.TriesLeft)
			} else {
				fmt.Printf("access denied, %d tries left\n", result.TriesLeft)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cut, "cut", false, "cut the signal instead of boosting it")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "End the round: archive, reset signals, purge sessions (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient().ResetRound(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("round reset: %d stations", result.Stations)
			if result.ArchiveKey != "" {
				fmt.Printf(", snapshot %s", result.ArchiveKey)
			}
			fmt.Println()
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a dev token (prompts for the shared secret)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(os.Stderr, "Enter secret: ")
			secret, err := readPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}

			tokenString, err := auth.GenerateToken(userID, role, secret, ttl)
			if err != nil {
				return err
			}
			fmt.Println(tokenString)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "dev", "user id to embed in the token")
	cmd.Flags().StringVar(&role, "role", "", "role to embed (admin enables round reset)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token validity duration")
	return cmd
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lanternctl",
		Short:         "Client for the lanternhack API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "API base URL")
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token (or LANTERN_TOKEN)")

	root.AddCommand(
		newStationsCmd(),
		newChallengeCmd(),
		newGuessCmd(),
		newResetCmd(),
		newTokenCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
