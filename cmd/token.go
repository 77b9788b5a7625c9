package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/zoombridge/internal/logging"
	"github.com/teemow/zoombridge/internal/zoomauth"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage stored OAuth token pairs",
	}
	cmd.AddCommand(newTokenSetCmd())
	cmd.AddCommand(newTokenShowCmd())
	return cmd
}

// newTokenSetCmd seeds or replaces the token pair for a credential. The
// pair comes from the booking platform's OAuth authorization flow; this
// tool never runs that flow itself.
func newTokenSetCmd() *cobra.Command {
	var (
		userID       string
		accessToken  string
		refreshToken string
		expiry       string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an OAuth token pair for a credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accessToken == "" || refreshToken == "" {
				return fmt.Errorf("--access-token and --refresh-token are required")
			}

			cred := &zoomauth.Credential{
				ID:           credentialID,
				UserID:       userID,
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
			}
			if expiry != "" {
				t, err := time.Parse(time.RFC3339, expiry)
				if err != nil {
					return fmt.Errorf("failed to parse --expiry: %w", err)
				}
				cred.Expiry = t
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(cmd.Context(), cred); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}
			fmt.Printf("Stored credential %q\n", credentialID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "Zoom user the token pair belongs to")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "OAuth access token")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "OAuth refresh token")
	cmd.Flags().StringVar(&expiry, "expiry", "", "Access token expiry (RFC 3339)")
	return cmd
}

func newTokenShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored credential (tokens redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			cred, err := store.Get(cmd.Context(), credentialID)
			if err != nil {
				return err
			}

			return printJSON(map[string]any{
				"id":            cred.ID,
				"user_id":       cred.UserID,
				"access_token":  logging.SanitizeToken(cred.AccessToken),
				"refresh_token": logging.SanitizeToken(cred.RefreshToken),
				"expiry":        cred.Expiry,
				"invalid":       cred.Invalid,
			})
		},
	}
}
