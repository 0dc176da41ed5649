package cli

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/kmorwood/lintcage/internal/semver"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(bumpCmd)

	bumpCmd.Flags().Bool("no-git", false, "only rewrite the version file, skip commit and tag")
}

var bumpCmd = &cobra.Command{
	Use:   "bump [major|minor|patch]",
	Short: "Bump the version file and tag a release",
	Long: `Bump the semantic version in the VERSION file, commit the change and
create an annotated tag. Defaults to a patch bump.

Examples:
  lintcage bump           # 1.2.3 -> 1.2.4
  lintcage bump minor     # 1.2.3 -> 1.3.0
  lintcage bump major     # 1.2.3 -> 2.0.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		part := "patch"
		if len(args) == 1 {
			part = args[0]
		}

		path := filepath.Join(cfg.Root, cfg.Git.VersionFile)
		current, err := semver.ReadFile(path)
		if err != nil {
			return err
		}

		next, err := current.Bump(part)
		if err != nil {
			return err
		}

		if err := semver.WriteFile(path, next); err != nil {
			return err
		}
		fmt.Printf("%s -> %s\n", current, next)

		noGit, _ := cmd.Flags().GetBool("no-git")
		if noGit {
			return nil
		}

		tag := "v" + next.String()
		steps := [][]string{
			{"add", cfg.Git.VersionFile},
			{"commit", "-m", "Release " + tag},
			{"tag", "-a", tag, "-m", "Release " + tag},
		}
		for _, step := range steps {
			gitCmd := exec.Command(cfg.Git.Executable, step...)
			gitCmd.Dir = cfg.Root
			if out, err := gitCmd.CombinedOutput(); err != nil {
				return fmt.Errorf("git %s failed: %w\n%s", step[0], err, out)
			}
		}
		fmt.Printf("Tagged %s\n", tag)
		return nil
	},
}
