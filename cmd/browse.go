package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/app"
	"github.com/spigell/gitrate/internal/gitrate"
	"github.com/spigell/gitrate/internal/ranking"
)

const (
	PromptQuit   = "Quit"
	PromptBack   = "back"
	PromptRemove = "Remove"
	PromptClear  = "Clear all saved profiles"
)

var errExit = errors.New("exit requested")

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse search, saved profiles and comparison interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt := setup()
		defer rt.close()

		return browse(cmd.OutOrStdout(), rt.controller(), rt.logger)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func browse(out io.Writer, c *app.Controller, logger *zap.Logger) error {
	for {
		view := c.View()
		tabs := app.AvailableTabs(len(view.Saved))

		items := make([]string, 0, len(tabs)+1)
		for _, tab := range tabs {
			items = append(items, tabLabel(tab, view))
		}
		items = append(items, PromptQuit)

		tabPrompt := promptui.Select{
			Label:     fmt.Sprintf("%s (%d saved)", view.Tab, len(view.Saved)),
			Items:     items,
			CursorPos: int(view.Tab),
		}

		idx, _, err := tabPrompt.Run()
		if err != nil {
			if err := promptError(err); !errors.Is(err, errExit) {
				return err
			}
			return nil
		}
		if idx == len(tabs) {
			return nil
		}

		if err := c.SelectTab(tabs[idx]); err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		if err := handleTab(out, c, tabs[idx], logger); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func tabLabel(tab app.Tab, view app.View) string {
	switch tab {
	case app.TabSaved:
		return fmt.Sprintf("%s (%d)", tab, len(view.Saved))
	default:
		return tab.String()
	}
}

func handleTab(out io.Writer, c *app.Controller, tab app.Tab, logger *zap.Logger) error {
	switch tab {
	case app.TabSearch:
		return browseSearch(out, c, logger)
	case app.TabSaved:
		return browseSaved(out, c)
	case app.TabCompare:
		entries, err := c.Compare()
		if err != nil {
			fmt.Fprintln(out, err)
			return nil
		}
		printLeaderboard(out, entries)
		return printMetrics(out, c.View().Saved, ranking.Metrics())
	default:
		return fmt.Errorf("invalid tab: %s", tab)
	}
}

func browseSearch(out io.Writer, c *app.Controller, logger *zap.Logger) error {
	usernamePrompt := promptui.Prompt{
		Label: "GitHub username",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New(gitrate.UserMessage(gitrate.ErrEmptyUsername))
			}
			return nil
		},
	}

	username, err := usernamePrompt.Run()
	if err != nil {
		return promptError(err)
	}

	fmt.Fprintf(out, "Analyzing %s...\n", strings.TrimSpace(username))

	view, err := c.Search(username)
	if err != nil {
		logger.Debug("search failed", zap.String("username", username), zap.Error(err))
		fmt.Fprintln(out, view.Error)
		return nil
	}

	printRating(out, view.Current)
	return nil
}

func browseSaved(out io.Writer, c *app.Controller) error {
	for {
		view := c.View()
		if len(view.Saved) == 0 {
			fmt.Fprintln(out, "no saved profiles yet")
			return nil
		}

		items := make([]string, 0, len(view.Saved)+2)
		for i := range view.Saved {
			r := &view.Saved[i]
			items = append(items, fmt.Sprintf("%s %.1f %s / %s", r.Username, r.FinalScore, r.Tier, formatSaved(r.SavedAt)))
		}
		items = append(items, PromptClear, PromptBack)

		savedPrompt := promptui.Select{
			Label: "Choose a profile and press ENTER",
			Items: items,
			Size:  len(items),
		}

		idx, selected, err := savedPrompt.Run()
		if err != nil {
			return promptError(err)
		}

		switch selected {
		case PromptBack:
			return nil
		case PromptClear:
			if !c.ClearSaved() {
				fmt.Fprintln(out, errStorageUpdate)
			}
		default:
			if err := browseProfile(out, c, &view.Saved[idx]); err != nil {
				return err
			}
		}
	}
}

func browseProfile(out io.Writer, c *app.Controller, r *gitrate.Rating) error {
	printRating(out, r)

	actionPrompt := promptui.Select{
		Label: r.Username,
		Items: []string{PromptBack, PromptRemove},
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return promptError(err)
	}

	if action == PromptRemove && !c.RemoveSaved(r.Username) {
		fmt.Fprintln(out, errStorageUpdate)
	}

	return nil
}

// promptError turns ctrl+c and ctrl+d into a clean exit.
func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errExit
	}
	return err
}
