package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envseed/internal/config"
	"github.com/thoreinstein/envseed/internal/editor"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/logging"
	"github.com/thoreinstein/envseed/internal/paths"
	"github.com/thoreinstein/envseed/pkg/fileutil"
)

// starterPlan is written when edit is asked to open a plan that does not
// exist yet.
const starterPlan = `version: 1
batches:
  - name: directories
    tasks:
      - name: projects
        type: directory
        path: ~/projects
`

// openEditor is replaced in tests.
var openEditor = editor.Open

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the plan in your editor and validate it afterwards",
	Long: `Open the plan named by --config, or ` + filepath.Join("<config dir>", config.AppName+".yaml") + `,
in $ENVSEED_EDITOR (falling back to $EDITOR, $VISUAL, nano and vi). A missing plan is created
from a small starter plan first. The plan is validated when the editor exits.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())

	path := configPath
	if path == "" {
		path = filepath.Join(config.ConfigDir(), config.AppName+".yaml")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
			return errors.NewSystemError(err, "Check the permissions of the config directory")
		}
		if err := fileutil.AtomicWriteFile(path, []byte(starterPlan), 0); err != nil {
			return errors.NewSystemError(err, "Check the permissions of the config directory")
		}
		logger.Info("created starter plan", "path", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", path)
	streams := editor.Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
	if err := openEditor(cmd.Context(), path, streams); err != nil {
		return errors.NewUserError(err, "Set $ENVSEED_EDITOR or $EDITOR to your preferred editor")
	}

	config.Init()
	if _, err := config.Load(path); err != nil {
		logValidationErrors(logger, err)
		return errors.NewConfigError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Plan is valid")
	return nil
}
