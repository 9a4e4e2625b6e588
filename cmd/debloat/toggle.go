package main

import (
	"fmt"

	"github.com/aretw0/debloat/internal/cli"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip an option, a category or the theme of a session",
}

var toggleOptionCmd = &cobra.Command{
	Use:   "option <option-id>...",
	Short: "Flip whether options are selected",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		sess, err := st.Engine.Session(cmd.Context(), sessionID(cmd))
		if err != nil {
			return err
		}
		for _, id := range args {
			enabled, err := sess.ToggleOption(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, onOff(enabled))
		}
		return nil
	},
}

var toggleCategoryCmd = &cobra.Command{
	Use:   "category <category-id>",
	Short: "Flip whether a category is collapsed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		sess, err := st.Engine.Session(cmd.Context(), sessionID(cmd))
		if err != nil {
			return err
		}
		collapsed, err := sess.ToggleCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := "expanded"
		if collapsed {
			state = "collapsed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], state)
		return nil
	},
}

var toggleThemeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Switch between the light and dark theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		sess, err := st.Engine.Session(cmd.Context(), sessionID(cmd))
		if err != nil {
			return err
		}
		theme, err := sess.ToggleTheme(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", theme)
		return nil
	},
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	toggleCmd.AddCommand(toggleOptionCmd)
	toggleCmd.AddCommand(toggleCategoryCmd)
	toggleCmd.AddCommand(toggleThemeCmd)
}
