package cmd

import (
	"fmt"
	"os"
	"strings"

	"ticketbot-backend/lib/scrapers/kham"

	"github.com/spf13/cobra"
)

var (
	loginAccount  string
	loginPassword string
	loginPage     string
	loginExtras   []string
	loginDumpHTML bool
)

func init() {
	loginCmd.Flags().StringVar(&loginAccount, "account", "", "member account")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "member password")
	loginCmd.Flags().StringVar(&loginPage, "login-page", "", "optional login page URL")
	loginCmd.Flags().StringArrayVar(&loginExtras, "extra", nil, "additional form fields as key=value pairs")
	loginCmd.Flags().BoolVar(&loginDumpHTML, "dump-html", false, "dump response HTML after login")
	loginCmd.MarkFlagRequired("account")
	loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}

func parseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := map[string]string{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid key=value pair: %s", pair)
		}
		result[key] = value
	}
	return result, nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Perform a login request and report the result.",
	Run: func(cmd *cobra.Command, args []string) {
		extras, err := parseKeyValuePairs(loginExtras)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		client := newClient(cmd.Context(), baseUrl)
		result := client.Login(cmd.Context(), loginAccount, loginPassword, kham.LoginOptions{
			LoginPage:      loginPage,
			ExtraOverrides: extras,
		})

		fmt.Println(result.Message)
		if result.Page != nil {
			fmt.Printf("Final URL: %s\n", result.Page.URL)
			fmt.Printf("Status: %d\n", result.Page.Status)
			if loginDumpHTML {
				fmt.Println(result.Page.Body)
			}
		}
		if !result.Success {
			os.Exit(1)
		}
	},
}
