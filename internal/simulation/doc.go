// Package simulation provides an end-to-end test harness for the preview
// session engine against a headless editor host.
//
// The simulation exercises the real Engine, Headless host, snapshot/diff
// pipeline and SQLite store — no mocks. Scenarios are Go builders that
// construct a scene, register automation hooks, run a full session
// (start, edit the clone, optionally save, exit) and hand the final world
// state back for property-based assertions. The exit can be configured to
// rebuild every in-memory object, reproducing a host domain reload.
//
// Each test gets an isolated SQLite database via t.TempDir().
//
// Usage:
//
//	func TestGravityTuning(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:       "gravity-tuning",
//	        BuildScene: springRig,
//	        TargetPath: "Rig/Tail",
//	        Edit:       func(clone *scene.Node) { simulation.Chain(t, clone, "Tail").Gravity = 0.7 },
//	        Save:       true,
//	    })
//	    simulation.AssertFloat(t, result, "Rig/Tail", "Gravity", 0.7)
//	}
package simulation
