package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/industry-atlas/internal/cli"
	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/config"
	"github.com/Veraticus/industry-atlas/internal/export"
)

const tokenFileName = "sheets-token.json"

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		callback     string
		noBrowser    bool
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This opens your browser to Google's consent page, saves the token next to
the config file and stores the refresh token in the config so that
'atlas companies export --format sheets' can run unattended.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if clientID == "" {
				clientID = firstNonEmpty(viper.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
			}
			if clientSecret == "" {
				clientSecret = firstNonEmpty(viper.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
			}
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
			}

			dir, err := config.Dir()
			if err != nil {
				return err
			}
			tokenFile := filepath.Join(dir, tokenFileName)
			if !force {
				if existing, loadErr := export.LoadToken(tokenFile); loadErr == nil && existing.RefreshToken != "" {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Already authenticated with Google Sheets; use --force to authenticate again."))
					return nil
				}
			}

			slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

			open := openBrowser
			if noBrowser {
				open = nil
			}
			token, err := export.AuthenticateOAuth2Interactive(ctx, export.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    tokenFile,
				CallbackAddr: callback,
			}, open)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			viper.Set("sheets.client_id", clientID)
			viper.Set("sheets.client_secret", clientSecret)
			viper.Set("sheets.refresh_token", token.RefreshToken)
			if err := saveConfig(dir); err != nil {
				common.LogError(err, "Failed to update config file with refresh token", common.Fields{"token_file": tokenFile})
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Could not save the refresh token; add it to config.yaml as sheets.refresh_token."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Google Sheets is configured."))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().StringVar(&callback, "callback", export.DefaultCallbackAddr, "local address for the OAuth2 redirect")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the consent URL instead of opening a browser")
	cmd.Flags().BoolVar(&force, "force", false, "authenticate even if a token is already saved")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func saveConfig(dir string) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0o750); err != nil {
		return err
	}
	return viper.WriteConfigAs(configFile)
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start() //nolint:gosec,forbidigo
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec,forbidigo
	case "darwin":
		return exec.Command("open", url).Start() //nolint:gosec,forbidigo
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}
