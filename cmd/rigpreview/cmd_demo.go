package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rigtools/rigpreview/internal/config"
	"github.com/rigtools/rigpreview/internal/host"
	"github.com/rigtools/rigpreview/internal/logging"
	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/rig"
	"github.com/rigtools/rigpreview/internal/scene"
	"github.com/rigtools/rigpreview/internal/session"
	"github.com/rigtools/rigpreview/internal/settings"
	"github.com/rigtools/rigpreview/internal/store"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted preview session against a headless host",
		Long: `Run one full preview session against the built-in headless host.

The demo builds a small rig, starts a session, tunes the tail chain's
gravity on the clone, saves, and exits through a simulated environment
reload — then prints the original rig's parameters to show the saved
change landed while everything else was restored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gravity, _ := cmd.Flags().GetFloat64("gravity")
			reload, _ := cmd.Flags().GetBool("reload")
			return runDemo(cmd, gravity, reload)
		},
	}
	cmd.Flags().Float64("gravity", 0.7, "Gravity value to tune the tail chain to")
	cmd.Flags().Bool("reload", true, "Rebuild all scene objects on exit, like a domain reload")
	return cmd
}

func buildDemoRig() *scene.Node {
	root := scene.NewNode("SceneRoot")
	rigNode := scene.NewNode("Rig")
	tail := scene.NewNode("Tail")
	tail.AddComponent(&rig.SpringChain{
		Gravity:    0.3,
		GravityDir: property.Vec3{X: 0, Y: -1, Z: 0},
		Stiffness:  1,
		Drag:       0.4,
		RootBones:  []string{"tail_00", "tail_01"},
	})
	rigNode.AddChild(tail)
	root.AddChild(rigNode)
	return root
}

func runDemo(cmd *cobra.Command, gravity float64, reload bool) error {
	ctx := context.Background()
	root := projectRoot(cmd)

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	st, err := store.Open(root)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	set := settings.New(st)
	level := cfg.Logging.Level
	if set.DebugLogging(ctx) {
		// The persisted toggle elevates verbosity without editing the
		// config file.
		level = "debug"
	}
	log := logging.NewLogger(level, os.Stderr)

	h := host.NewHeadless()
	h.Scenes().Add("Main", buildDemoRig())
	h.Automations().Register(&scene.Automation{
		Name: "AutoBuildOnSave", Owner: "com.vendor.build", Enabled: true,
	})
	if reload {
		h.SetReload(func(reg *scene.Registry) {
			reg.Add("Main", buildDemoRig())
		})
	}

	trace := logging.NewSessionTrace(st.Dir(), level)
	defer trace.Close()

	eng, err := session.New(h, st, set, cfg, log, trace)
	if err != nil {
		return err
	}
	defer eng.Close()

	target := h.Scenes().Scene("Main").Child("Rig").Child("Tail")
	if err := eng.Start(ctx, target); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	h.Step()
	if !eng.IsActive() {
		return fmt.Errorf("session failed to activate (state %s)", eng.State())
	}
	fmt.Printf("session %s active; editing clone\n", eng.SessionID())

	tuned := eng.CloneRoot().Child("Tail").Component(rig.TypeSpringChain).(*rig.SpringChain)
	tuned.Gravity = gravity
	if err := eng.Save(ctx); err != nil {
		return fmt.Errorf("saving: %w", err)
	}

	if err := eng.RequestExit(); err != nil {
		return err
	}
	h.Step()

	final := h.Scenes().Scene("Main").Child("Rig").Child("Tail").
		Component(rig.TypeSpringChain).(*rig.SpringChain)
	fmt.Printf("after exit (reload=%v):\n", reload)
	fmt.Printf("  Gravity   %g (tuned)\n", final.Gravity)
	fmt.Printf("  Stiffness %g\n", final.Stiffness)
	fmt.Printf("  Drag      %g\n", final.Drag)
	hook := h.Automations().Find("AutoBuildOnSave")
	fmt.Printf("  AutoBuildOnSave enabled: %v\n", hook.Enabled)
	return nil
}
