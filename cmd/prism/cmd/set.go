package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iiroan/prism/internal/controller"
	"github.com/iiroan/prism/internal/theme"
	"github.com/iiroan/prism/internal/ui"
)

var settableFields = []string{"color", "mode", "direction", "gradient", "decoration", "bg-position", "layout"}

var setRandom bool

var setCmd = &cobra.Command{
	Use:   "set <field> [value]",
	Short: "Change a single preference",
	Long: `Change a single preference and persist it.

Fields: ` + strings.Join(settableFields, ", ") + `

Examples:
  prism set mode light
  prism set direction rtl
  prism set color --random`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: settableFields,
	RunE:      runSet,
}

func init() {
	setCmd.Flags().BoolVar(&setRandom, "random", false, "Pick a random palette color")
}

func runSet(cmd *cobra.Command, args []string) error {
	field := args[0]
	if setRandom && field != "color" {
		return fmt.Errorf("--random only applies to color")
	}
	if !setRandom && len(args) != 2 {
		return fmt.Errorf("%s needs a value", field)
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx, sessionOptions{broker: true})
	if err != nil {
		return err
	}
	defer sess.Close()

	handlers := sess.ctrl.Handlers()
	if setRandom {
		entry, err := handlers.SetRandomColor(ctx)
		if err != nil {
			return err
		}
		sess.updates.waitForColor(ctx, entry.Value, 4*controller.RandomColorDelay)
		fmt.Println(ui.SuccessStyle.Render("✔ color set to " + entry.Value + " (" + entry.Label + ")"))
		return nil
	}

	if err := applySetting(ctx, handlers, field, args[1]); err != nil {
		return err
	}
	sess.updates.apply()
	fmt.Println(ui.SuccessStyle.Render("✔ " + field + " set to " + args[1]))
	return nil
}

// applySetting routes a field/value pair to the matching handler.
func applySetting(ctx context.Context, h controller.Handlers, field string, value string) error {
	switch field {
	case "color":
		return h.SetColor(ctx, value)
	case "mode":
		mode, err := theme.ParseMode(value)
		if err != nil {
			return err
		}
		return h.SetMode(ctx, mode)
	case "direction":
		dir, err := theme.ParseDirection(value)
		if err != nil {
			return err
		}
		return h.SetDirection(ctx, dir)
	case "gradient":
		enabled, err := parseToggle(value)
		if err != nil {
			return err
		}
		return h.SetGradient(ctx, enabled)
	case "decoration":
		enabled, err := parseToggle(value)
		if err != nil {
			return err
		}
		return h.SetDecoration(ctx, enabled)
	case "bg-position":
		return h.SetBgPosition(ctx, value)
	case "layout":
		return h.SetLayout(ctx, value)
	default:
		return fmt.Errorf("unknown field %q (expected one of %s)", field, strings.Join(settableFields, ", "))
	}
}

func parseToggle(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("expected on/off or true/false, got %q", value)
	}
	return enabled, nil
}
