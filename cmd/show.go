package cmd

import (
	"fmt"
	"strings"

	"github.com/hyprconf/hyprconf/internal/hypr"
	"github.com/hyprconf/hyprconf/internal/template"
	"github.com/spf13/cobra"
)

var (
	showTemplate string
	getResolved  bool
	setApply     bool
)

var showCmd = &cobra.Command{
	Use:   "show [section]",
	Short: "Show a summary of the config or one section",
	Long: `Show a summary of the config file.

With a section argument such as "decoration.blur", print that section as it
would be written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		doc := s.Document()

		if len(args) == 1 {
			b, ok := doc.Block(args[0])
			if !ok {
				return fmt.Errorf("section %q not found", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), hypr.SerializeEntry(&b))
			return nil
		}

		engine := template.New()
		name := template.Summary
		if showTemplate != "" {
			name = "custom"
			if err := engine.LoadFile(name, showTemplate); err != nil {
				return err
			}
		}
		out, err := engine.Render(name, template.BuildSummary(s.Path(), doc))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <section.key | $variable>",
	Short: "Print one value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		doc := s.Document()

		var value string
		if name, ok := strings.CutPrefix(args[0], "$"); ok {
			v, found := doc.Variable(name)
			if !found {
				return fmt.Errorf("variable $%s is not defined", name)
			}
			value = v.Value
		} else {
			section, key, err := splitKeyPath(args[0])
			if err != nil {
				return err
			}
			var found bool
			value, found = doc.Value(section, key)
			if !found {
				return fmt.Errorf("%s is not set", args[0])
			}
		}

		if getResolved {
			value = s.Resolve().Expand(value)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <section.key | $variable> <value>",
	Short: "Set one value and save",
	Long: `Set one value and save the file.

Missing sections are created. A backup of the previous file is written first
unless backups are disabled.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		value := strings.Join(args[1:], " ")
		if err := setTarget(s.History(), args[0], value); err != nil {
			return err
		}
		if !s.Modified() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", args[0], value)
			return nil
		}

		if setApply {
			out, err := s.Apply(cmd.Context())
			if out != "" && IsVerbose() {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			if err != nil {
				return err
			}
		} else if _, err := s.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", args[0], value)
		return nil
	},
}

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "List variables with their resolved values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		out, err := template.New().Render(template.Variables, template.BuildSummary(s.Path(), s.Document()))
		if err != nil {
			return err
		}
		if out = strings.TrimSpace(out); out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showTemplate, "template", "", "render the summary with a custom text/template file")
	getCmd.Flags().BoolVarP(&getResolved, "resolved", "r", false, "expand variable references")
	setCmd.Flags().BoolVar(&setApply, "apply", false, "reload the compositor after saving")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(varsCmd)
}

// splitKeyPath splits "decoration.blur.size" into "decoration.blur" and "size".
func splitKeyPath(path string) (section, key string, err error) {
	i := strings.LastIndex(path, ".")
	if i <= 0 || i == len(path)-1 {
		return "", "", fmt.Errorf("expected section.key or $variable, got %q", path)
	}
	return path[:i], path[i+1:], nil
}

// setTarget records a change to a setting or variable.
func setTarget(h *hypr.History, target, value string) error {
	if name, ok := strings.CutPrefix(target, "$"); ok {
		if v, found := h.Document().Variable(name); found {
			return h.SetField(v.ID(), hypr.FieldValue, value)
		}
		_, err := h.Append(hypr.Root, &hypr.Variable{Name: name, Value: value})
		return err
	}

	section, key, err := splitKeyPath(target)
	if err != nil {
		return err
	}
	_, err = h.SetValue(section, key, value)
	return err
}
