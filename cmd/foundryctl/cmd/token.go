package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/foundry-social/foundry/internal/api/auth"
)

var (
	tokenDBPath   string
	tokenUsername string
	tokenTTL      time.Duration
)

// tokenCmd mints an access token for a user
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for a user",
	Long: `Mint a signed access token for an existing user.

The signing secret is read from the FOUNDRY_JWT_SECRET environment
variable and must match the one the server runs with. Intended for
testing and scripting against the API.

Example:
  FOUNDRY_JWT_SECRET=... foundryctl token --username alice --ttl 1h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUsername == "" {
			return fmt.Errorf("--username is required")
		}

		secret := os.Getenv("FOUNDRY_JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("FOUNDRY_JWT_SECRET environment variable is required")
		}

		store, err := openDatabase(tokenDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := store.Users().GetByUsername(context.Background(), tokenUsername)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user '%s' not found", tokenUsername)
		}

		jwtService := auth.NewJWTService([]byte(secret), tokenTTL)
		token, err := jwtService.GenerateToken(user)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}

		PrintVerbose("token for %s expires in %s", user.Username, tokenTTL)
		fmt.Println(token)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenDBPath, "db", defaultDBPath, "path to SQLite database file")
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "username to mint a token for (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 15*time.Minute, "token lifetime")
	tokenCmd.MarkFlagRequired("username")
}
