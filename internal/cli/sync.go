package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/spf13/cobra"
)

// NewSyncCommand — ручной запуск синхронизации; --wait ждёт окончания цикла.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		wait     bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Start a manual sync run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			st, err := c.StartSync(ctx)
			if err != nil {
				return wrapAPIError("start sync", err)
			}

			for wait && st.InProgress {
				select {
				case <-ctx.Done():
					return &ExitError{Code: ExitCommandError, Message: "wait for sync", Err: ctx.Err()}
				case <-time.After(interval):
				}
				if st, err = c.SyncStatus(ctx); err != nil {
					return wrapAPIError("sync status", err)
				}
			}

			if err := rootOpts.printer(cmd).print(st, func(w io.Writer) error {
				if st.InProgress {
					_, err := fmt.Fprintf(w, "sync started: %s %d/%d\n", st.Phase, st.Completed, st.Total)
					return err
				}
				if r := st.LastReport; r != nil {
					fmt.Fprintf(w, "sync finished: success=%d failed=%d\n", r.Drain.Success, r.Drain.Failed)
					if r.Error != "" {
						fmt.Fprintf(w, "error: %s\n", r.Error)
					}
				}
				return nil
			}); err != nil {
				return err
			}
			if wait && st.LastReport != nil && st.LastReport.Error != "" {
				return &ExitError{Code: ExitFailure, Message: "sync failed: " + st.LastReport.Error}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until the run finishes")
	cmd.Flags().DurationVar(&interval, "poll-interval", 500*time.Millisecond, "status poll interval with --wait")
	return cmd
}

// NewConflictsCommand — отчёт о свежести справочников.
func NewConflictsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "Show reference data freshness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			report, err := c.Conflicts(cmd.Context())
			if err != nil {
				return wrapAPIError("conflicts", err)
			}

			return rootOpts.printer(cmd).print(report, func(w io.Writer) error {
				stale := make(map[domain.Category]bool, len(report.StaleCategories))
				for _, cat := range report.StaleCategories {
					stale[cat] = true
				}
				cats := make([]domain.Category, 0, len(report.CacheAge))
				for cat := range report.CacheAge {
					cats = append(cats, cat)
				}
				sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

				rows := make([]string, 0, len(cats))
				for _, cat := range cats {
					last := "never"
					if ts := report.CacheAge[cat]; ts != nil {
						last = ts.Local().Format("2006-01-02 15:04")
					}
					state := "fresh"
					if stale[cat] {
						state = "STALE"
					}
					rows = append(rows, fmt.Sprintf("%s\t%s\t%s", cat, last, state))
				}
				return table(w, "CATEGORY\tLAST SYNCED\tSTATE", rows)
			})
		},
	}
}

// NewReviewCommand — без аргументов показывает заказ на ревью; с <id> <confirm|cancel> отвечает.
func NewReviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "review [<order-id> <confirm|cancel>]",
		Short: "Show or answer the pending stale-data review",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return &ExitError{Code: ExitCommandError, Message: "expected no arguments or <order-id> <confirm|cancel>"}
			}
			if len(args) == 2 && !domain.ReviewDecision(args[1]).Valid() {
				return &ExitError{Code: ExitCommandError, Message: fmt.Sprintf("unknown decision %q", args[1])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p := rootOpts.printer(cmd)

			if len(args) == 2 {
				id, decision := args[0], domain.ReviewDecision(args[1])
				if err := c.AnswerReview(ctx, id, decision); err != nil {
					return wrapAPIError("answer review", err)
				}
				return p.print(map[string]string{"id": id, "decision": string(decision)}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "order %s: %s\n", id, decision)
					return err
				})
			}

			req, ok, err := c.CurrentReview(ctx)
			if err != nil {
				return wrapAPIError("current review", err)
			}
			var data any
			if ok {
				data = req
			}
			return p.print(data, func(w io.Writer) error {
				if !ok {
					_, err := fmt.Fprintln(w, "nothing awaiting review")
					return err
				}
				o := req.Order
				fmt.Fprintf(w, "order %d of %d: %s\n", req.Current, req.Total, o.ID)
				fmt.Fprintf(w, "customer: %s (%s)\n", o.CustomerName, o.CustomerID)
				fmt.Fprintf(w, "created: %s\n", o.CreatedAt.Local().Format("2006-01-02 15:04"))
				fmt.Fprintf(w, "stale categories: %v\n", req.StaleCategories)
				rows := make([]string, 0, len(o.Items))
				for _, it := range o.Items {
					discount := ""
					if it.Discount != nil {
						discount = fmt.Sprintf("%.2f%%", *it.Discount)
					}
					rows = append(rows, fmt.Sprintf("%s\t%d\t%.2f\t%s", it.ArticleCode, it.Quantity, it.UnitPrice, discount))
				}
				return table(w, "ARTICLE\tQTY\tPRICE\tDISCOUNT", rows)
			})
		},
	}
}

// NewConnectivityCommand — команда online или offline.
func NewConnectivityCommand(rootOpts *RootOptions, online bool) *cobra.Command {
	use, short := "offline", "Report the network as unavailable"
	if online {
		use, short = "online", "Report the network as available (starts a sync on reconnect)"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			got, err := c.SetOnline(cmd.Context(), online)
			if err != nil {
				return wrapAPIError("connectivity", err)
			}
			return rootOpts.printer(cmd).print(map[string]bool{"online": got}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "online=%t\n", got)
				return err
			})
		},
	}
}
