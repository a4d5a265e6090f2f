package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/platform"
)

var platformJSON bool

func init() {
	platformCmd.Flags().BoolVar(&platformJSON, "json", false,
		"output as JSON")
	rootCmd.AddCommand(platformCmd)
}

var platformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Print the detected host platform",
	Long: `Print the platform tasks are validated against and the OS name it was
detected from. Set ` + platform.EnvOSName + ` to override the OS name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pl, host := hostPlatform()

		if platformJSON {
			out := struct {
				Platform string `json:"platform"`
				Host     string `json:"host"`
			}{pl.String(), host}
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
				return errors.Wrap(err, "encoding JSON")
			}
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", pl)
		fmt.Fprintf(cmd.OutOrStdout(), "Host:     %s\n", host)
		return nil
	},
}
