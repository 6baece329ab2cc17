package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rigtools/rigpreview/internal/changeset"
	"github.com/rigtools/rigpreview/internal/store"
)

func newBufferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buffer",
		Short: "Inspect the durable change buffer",
		Long: `Inspect or discard the durable change buffer.

The buffer holds the change set saved by the most recent preview session
that has not yet been applied — normally it is consumed the moment the
host leaves simulated mode, so a lingering buffer usually means a session
was interrupted.`,
	}

	cmd.AddCommand(
		newBufferShowCmd(),
		newBufferClearCmd(),
	)

	return cmd
}

func newBufferShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the pending change set",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			ctx := context.Background()

			st, err := store.Open(projectRoot(cmd))
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close()

			pending, err := st.LoadBuffer(ctx)
			if err != nil {
				return err
			}
			if pending == nil {
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(nil)
				}
				fmt.Println("No pending changes.")
				return nil
			}

			cs, err := changeset.Decode(pending.Payload)
			if err != nil {
				return fmt.Errorf("buffer is corrupt: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"origin":   pending.Origin,
					"saved_at": pending.SavedAt,
					"changes":  cs,
				})
			}

			fmt.Printf("Pending changes for %s (saved %s):\n",
				pending.Origin, pending.SavedAt.Format("2006-01-02 15:04:05"))
			for _, cc := range cs.Components {
				fmt.Printf("  %s\n", cc.Key)
				for _, e := range cc.Entries {
					fmt.Printf("    %-24s %-10s %s\n", e.Path, e.Kind, e.Value)
				}
			}
			fmt.Printf("%d entries total\n", cs.Len())
			return nil
		},
	}
}

func newBufferClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the pending change set",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			st, err := store.Open(projectRoot(cmd))
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close()

			if err := st.ClearBuffer(ctx); err != nil {
				return err
			}
			fmt.Println("Buffer cleared.")
			return nil
		},
	}
}
