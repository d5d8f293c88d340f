package cmd

import (
	"fmt"
	"net/url"
	"os"

	"ticketbot-backend/lib/htmlform"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	formsUrl             string
	formsIncludePassword bool
)

func init() {
	formsCmd.Flags().StringVar(&formsUrl, "url", "", "page URL to inspect, defaults to the base URL")
	formsCmd.Flags().BoolVar(&formsIncludePassword, "include-password", false, "only show forms carrying a password field")
	rootCmd.AddCommand(formsCmd)
}

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Fetch a page and print every form detected on it.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(cmd.Context(), baseUrl)

		target := formsUrl
		if target == "" {
			target = baseUrl
		}
		page, err := client.Fetch(cmd.Context(), target)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		base, err := url.Parse(page.URL)
		if err != nil {
			base = client.BaseUrl
		}
		forms := htmlform.ExtractString(base, page.Body)
		if formsIncludePassword {
			var filtered []htmlform.Form
			for _, form := range forms {
				if form.HasPasswordField() {
					filtered = append(filtered, form)
				}
			}
			forms = filtered
		}

		if len(forms) == 0 {
			fmt.Println("No forms found.")
			os.Exit(1)
		}

		for i, form := range forms {
			fmt.Printf("Form #%d: %s %s\n", i+1, form.Method, form.Action)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"field", "type", "default"})
			for _, name := range form.Order {
				t.AppendRow(table.Row{name, form.Types[name], form.Fields[name]})
			}
			t.Render()
		}
	},
}
