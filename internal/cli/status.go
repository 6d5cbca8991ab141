package cli

import (
	"fmt"
	"io"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/spf13/cobra"
)

// statusView — состояние очереди и синхронизации одним снимком.
type statusView struct {
	Queue Summary           `json:"queue"`
	Sync  domain.SyncStatus `json:"sync"`
}

// NewStatusCommand — сводка очереди и текущая фаза синхронизации.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue counters and sync progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			summary, err := c.Summary(ctx)
			if err != nil {
				return wrapAPIError("queue summary", err)
			}
			st, err := c.SyncStatus(ctx)
			if err != nil {
				return wrapAPIError("sync status", err)
			}

			view := statusView{Queue: summary, Sync: st}
			return rootOpts.printer(cmd).print(view, func(w io.Writer) error {
				fmt.Fprintln(w, summary.Message)
				fmt.Fprintf(w, "pending=%d syncing=%d error=%d\n", summary.Pending, summary.Syncing, summary.Error)
				if st.InProgress {
					fmt.Fprintf(w, "sync: %s %d/%d\n", st.Phase, st.Completed, st.Total)
				} else {
					fmt.Fprintln(w, "sync: idle")
				}
				if r := st.LastReport; r != nil {
					fmt.Fprintf(w, "last run: trigger=%s success=%d failed=%d finished=%s\n",
						r.Trigger, r.Drain.Success, r.Drain.Failed, r.FinishedAt.Format("2006-01-02 15:04:05"))
					if r.Error != "" {
						fmt.Fprintf(w, "last error: %s\n", r.Error)
					}
				}
				return nil
			})
		},
	}
}
