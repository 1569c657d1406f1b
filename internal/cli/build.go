// Package cli: build.go implements the default build run of appbuild.
//
// Orchestration steps:
//  1. Resolve the layout (config file, --root override, validation)
//  2. Scan the source directory for user programs
//  3. Order the programs so init and idle occupy slots 0 and 1
//  4. Render the assembly fragment and check the index table
//  5. Write the fragment atomically unless it is unchanged, then print the summary
package cli

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bluestar-os/appbuild/internal/asm"
	"github.com/bluestar-os/appbuild/internal/config"
	"github.com/bluestar-os/appbuild/internal/ctxlog"
	"github.com/bluestar-os/appbuild/internal/discover"
	"github.com/bluestar-os/appbuild/internal/image"
	"github.com/bluestar-os/appbuild/internal/model"
	"github.com/bluestar-os/appbuild/internal/order"
)

// resolveLayout loads the layout used by every command.
//
// An explicit --config must exist. Without it, the working directory is
// searched and the built-in defaults apply when nothing is found. --root
// wins over the root from the file.
func resolveLayout(ctx context.Context, flags *globalFlags) (config.Layout, error) {
	logger := ctxlog.FromContext(ctx)
	layout := config.Default()

	path := flags.configPath
	if path == "" {
		if found, ok := config.Find("."); ok {
			path = found
		}
	}

	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Layout{}, model.WrapCLIError(model.ExitGeneralError,
				"failed to load configuration", err)
		}
		layout = loaded
		logger.Debug("Loaded configuration", "path", path)
	} else {
		logger.Debug("No configuration file found, using defaults")
	}

	if flags.rootDir != "" {
		layout.RootDir = flags.rootDir
	}

	if errs := config.Validate(layout); len(errs) > 0 {
		return config.Layout{}, model.NewCLIError(model.ExitGeneralError,
			"invalid configuration:\n"+config.JoinErrors(errs))
	}
	return layout, nil
}

// computePlan scans the source directory and orders what it finds.
// Dropped duplicates and missing binaries are logged, never fatal.
func computePlan(ctx context.Context, layout config.Layout) (order.Plan, error) {
	logger := ctxlog.FromContext(ctx)

	result, err := discover.NewScanner(layout).Scan(ctx)
	if err != nil {
		return order.Plan{}, err
	}

	plan := order.Order(result.Units)
	for _, d := range plan.Dropped {
		logger.Warn("Duplicate fixed-role application ignored", "name", d.Name)
	}

	for _, u := range discover.MissingBinaries(result.Units) {
		logger.Warn("Binary not built yet; the assembler will fail to include it",
			"name", u.Name, "path", u.BinaryPath)
	}
	return plan, nil
}

// runBuild is the main logic function for the build.
func runBuild(ctx context.Context, flags *globalFlags, console *Console) error {
	logger := ctxlog.FromContext(ctx)

	// Step 1: Resolve the layout.
	layout, err := resolveLayout(ctx, flags)
	if err != nil {
		return err
	}

	// Step 2: Scan and order. An interrupt before this point aborts cleanly.
	if err := ctx.Err(); err != nil {
		return err
	}
	console.Printf("[1/3] Scanning %s ...\n", layout.SourceRoot())

	plan, err := computePlan(ctx, layout)
	if err != nil {
		return err
	}

	// Step 3: Report the order.
	printProgress(console, plan)
	if plan.Len() == 0 {
		logger.Warn("No applications found; generating an empty table",
			"source_dir", layout.SourceRoot())
	}

	// Step 4: Render the fragment.
	if err := ctx.Err(); err != nil {
		return err
	}
	console.Printf("\n[2/3] Generating assembly...\n")

	opts := asm.OptionsFromLayout(layout)
	text, err := asm.Render(plan.Entries, opts)
	if err != nil {
		return err
	}
	if slots := asm.SlotCount(text, opts); slots != 2*plan.Len() {
		return errors.Errorf("index table has %d slots, expected %d", slots, 2*plan.Len())
	}

	// Step 5: Write to disk.
	if err := ctx.Err(); err != nil {
		return err
	}
	console.Printf("\n[3/3] Writing to disk...\n")

	// An identical file is left alone so its timestamp does not trigger a
	// kernel relink.
	outputPath := layout.Output()
	if image.Unchanged(outputPath, text) {
		logger.Debug("Output is already up to date", "path", outputPath)
		console.OK("Up to date %s", outputPath)
	} else {
		if err := image.Write(outputPath, text); err != nil {
			return err
		}
		console.OK("Generated %s", outputPath)
	}

	printSummary(console, plan)
	return nil
}

// printProgress lists every planned entry with its 0-based position.
func printProgress(console *Console, plan order.Plan) {
	if plan.Len() == 0 {
		console.Println("No applications found!")
		return
	}

	console.Printf("Found %d application(s):\n", plan.Len())
	for _, e := range plan.Entries {
		if e.Role.IsFixed() {
			console.Printf("  %s (fixed at index %d)\n", e.String(), e.Position)
			continue
		}
		console.Printf("  %s\n", e.String())
	}
}

// printSummary prints the closing block with the entry count.
func printSummary(console *Console, plan order.Plan) {
	console.Println()
	console.Rule()
	console.OK("Build configuration complete!")
	console.Printf("Total applications: %d\n", plan.Len())
	console.Rule()
}
