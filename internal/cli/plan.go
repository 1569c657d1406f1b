// Package cli: plan.go implements the "appbuild plan" command.
//
// The plan command runs discovery and ordering exactly like the build but
// writes nothing. It is the quickest way to see which slot a program will
// occupy before booting the kernel.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bluestar-os/appbuild/internal/asm"
	"github.com/bluestar-os/appbuild/internal/config"
	"github.com/bluestar-os/appbuild/internal/model"
	"github.com/bluestar-os/appbuild/internal/order"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatAsm  = "asm"
)

// planFlags holds the flag values for the plan command.
type planFlags struct {
	format string // --format: text, json, yaml, or asm
	role   string // --role: filter by role (init, idle, other)
}

// NewPlanCommand creates the "plan" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPlanCommand(global *globalFlags) *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the application order without writing anything",
		Long: `Show the applications that would be embedded, in slot order.

Examples:
  appbuild plan
  appbuild plan --format json
  appbuild plan --role other
  appbuild plan --format asm > /tmp/app.asm`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), global, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", formatText, "Output format: text, json, yaml, or asm")
	cmd.Flags().StringVar(&flags.role, "role", "", "Filter by role: init, idle, other")

	return cmd
}

// runPlan is the main logic function for the plan command.
func runPlan(ctx context.Context, global *globalFlags, flags *planFlags, w io.Writer) error {
	// Step 1: Validate the --format flag value before touching the disk.
	switch flags.format {
	case formatText, formatJSON, formatYAML, formatAsm:
	default:
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid format %q: valid values are text, json, yaml, asm", flags.format))
	}

	// Step 2: Validate the --role flag value if provided. The asm format
	// needs the complete table, so it cannot be filtered.
	var roleFilter model.Role
	if flags.role != "" {
		var err error
		roleFilter, err = model.ParseRole(flags.role)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				"invalid --role value", err)
		}
		if flags.format == formatAsm {
			return model.NewCLIError(model.ExitGeneralError,
				"--role cannot be combined with --format asm")
		}
	}

	// Step 3: Resolve the layout and compute the plan.
	layout, err := resolveLayout(ctx, global)
	if err != nil {
		return err
	}
	plan, err := computePlan(ctx, layout)
	if err != nil {
		return err
	}

	// Step 4: Apply the --role filter if specified. Positions keep their
	// values from the full plan.
	if roleFilter != "" {
		plan = filterByRole(plan, roleFilter)
	}

	// Step 5: Output results in the requested format.
	switch flags.format {
	case formatJSON:
		return printPlanJSON(w, layout, plan)
	case formatYAML:
		return printPlanYAML(w, layout, plan)
	case formatAsm:
		return printPlanAsm(w, layout, plan)
	default:
		return printPlanText(w, layout, plan)
	}
}

// filterByRole returns plan with only the entries of the given role.
func filterByRole(plan order.Plan, role model.Role) order.Plan {
	filtered := order.Plan{
		Entries: make([]model.OrderedEntry, 0, plan.Len()),
		Dropped: plan.Dropped,
	}
	for _, e := range plan.Entries {
		if e.Role == role {
			filtered.Entries = append(filtered.Entries, e)
		}
	}
	return filtered
}

// planEntryView is the serialized form of one ordered entry.
type planEntryView struct {
	Position   int    `json:"position" yaml:"position"`
	Label      int    `json:"label" yaml:"label"`
	Name       string `json:"name" yaml:"name"`
	Role       string `json:"role" yaml:"role"`
	BinaryPath string `json:"binaryPath" yaml:"binaryPath"`
}

// planView is the serialized form of a plan.
type planView struct {
	Output  string          `json:"output" yaml:"output"`
	Entries []planEntryView `json:"entries" yaml:"entries"`
	Dropped []string        `json:"dropped" yaml:"dropped"`
}

// newPlanView converts a plan to its serialized form.
func newPlanView(layout config.Layout, plan order.Plan) planView {
	v := planView{
		Output: layout.Output(),
		// Use empty slices instead of nil so JSON shows [] instead of null.
		Entries: make([]planEntryView, 0, plan.Len()),
		Dropped: make([]string, 0, len(plan.Dropped)),
	}
	for _, e := range plan.Entries {
		v.Entries = append(v.Entries, planEntryView{
			Position:   e.Position,
			Label:      e.Label,
			Name:       e.Unit.Name,
			Role:       e.Role.String(),
			BinaryPath: e.Unit.BinaryPath,
		})
	}
	for _, d := range plan.Dropped {
		v.Dropped = append(v.Dropped, d.Name)
	}
	return v
}

// printPlanText prints the plan as an aligned table.
func printPlanText(w io.Writer, layout config.Layout, plan order.Plan) error {
	if plan.Len() == 0 {
		fmt.Fprintln(w, "No applications found.")
		return nil
	}

	opts := asm.OptionsFromLayout(layout)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tLABEL\tNAME\tROLE\tBINARY")
	for _, e := range plan.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.Position, opts.StartLabel(e.Label), e.Unit.Name, e.Role, e.Unit.BinaryPath)
	}
	return tw.Flush()
}

// printPlanJSON prints the plan as indented JSON.
func printPlanJSON(w io.Writer, layout config.Layout, plan order.Plan) error {
	// MarshalIndent produces human-readable JSON with 2-space indentation.
	data, err := json.MarshalIndent(newPlanView(layout, plan), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printPlanYAML prints the plan as YAML.
func printPlanYAML(w io.Writer, layout config.Layout, plan order.Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newPlanView(layout, plan)); err != nil {
		return err
	}
	return enc.Close()
}

// printPlanAsm prints the fragment the build would write.
func printPlanAsm(w io.Writer, layout config.Layout, plan order.Plan) error {
	text, err := asm.Render(plan.Entries, asm.OptionsFromLayout(layout))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
