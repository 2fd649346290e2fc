package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"orderstate/cmd"
	"orderstate/internal/core/application/usecases/commands"
	"orderstate/internal/core/application/usecases/queries"
	"orderstate/internal/core/domain/model/kernel"
	"orderstate/internal/core/domain/model/order"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type rootOptions struct {
	envFile string
	out     io.Writer
	logOut  io.Writer
}

func newRootCommand(out, logOut io.Writer) *cobra.Command {
	opts := &rootOptions{out: out, logOut: logOut}

	root := &cobra.Command{
		Use:           "orderstate",
		Short:         "Order lifecycle state machine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		newServeCommand(opts),
		newCreateCommand(opts),
		newChangeCommand(opts),
		newListCommand(opts),
		newDemoCommand(opts),
	)
	return root
}

// withApp builds the composition root for one command invocation and closes it afterwards.
func withApp(ctx context.Context, opts *rootOptions, run func(*cmd.CompositionRoot) error) (err error) {
	cfg, err := cmd.LoadConfig(opts.envFile)
	if err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(cfg, cmd.NewLogger(opts.logOut, cfg.LogLevel))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close(ctx))
	}()

	return run(app)
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run scheduled jobs",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withApp(context.WithoutCancel(ctx), opts, func(app *cmd.CompositionRoot) error {
				router, err := app.CreateHTTPRouter(ctx)
				if err != nil {
					return err
				}

				jobManager := app.CreateJobManager()
				if err = jobManager.StartAll(); err != nil {
					return err
				}
				defer jobManager.StopAll()

				serveErr := make(chan error, 1)
				go func() {
					serveErr <- router.Start(fmt.Sprintf("0.0.0.0:%s", app.Config().HTTPPort))
				}()

				select {
				case err = <-serveErr:
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}
					return err
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return router.Shutdown(shutdownCtx)
			})
		},
	}
}

func newCreateCommand(opts *rootOptions) *cobra.Command {
	var status string

	c := &cobra.Command{
		Use:   "create BUSINESS_KEY",
		Short: "Create an order, by default in the initial status",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			key, err := order.ParseBusinessKey(args[0])
			if err != nil {
				return err
			}
			initial := order.Unknown
			if status != "" {
				if initial, err = order.ParseStatus(status); err != nil {
					return err
				}
			}

			command, err := commands.NewCreateOrderCommand(kernel.NewUUID(), key, initial)
			if err != nil {
				return err
			}

			return withApp(c.Context(), opts, func(app *cmd.CompositionRoot) error {
				if err := app.CreateCreateOrderCommandHandler().Handle(c.Context(), command); err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "created order %d\n", key)
				return nil
			})
		},
	}
	c.Flags().StringVar(&status, "status", "", "initial status code, e.g. WAIT_DELIVER")
	return c
}

func newChangeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "change BUSINESS_KEY EVENT",
		Short: "Send an event to an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			key, err := order.ParseBusinessKey(args[0])
			if err != nil {
				return err
			}
			event, err := order.ParseEvent(args[1])
			if err != nil {
				return err
			}

			command, err := commands.NewChangeOrderStatusCommand(key, event)
			if err != nil {
				return err
			}

			return withApp(c.Context(), opts, func(app *cmd.CompositionRoot) error {
				accepted, err := app.CreateChangeOrderStatusCommandHandler().Handle(c.Context(), command)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "order %d %s: accepted=%t\n", key, event.Code(), accepted)
				return nil
			})
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every order and its status",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return withApp(c.Context(), opts, func(app *cmd.CompositionRoot) error {
				orders, err := app.CreateListOrdersQueryHandler().Handle(c.Context(), queries.NewListOrdersQuery())
				if err != nil {
					return err
				}
				fmt.Fprintln(c.OutOrStdout(), queries.FormatOrders(orders))
				return nil
			})
		},
	}
}

// newDemoCommand walks one order through the whole lifecycle in a single process,
// which is the only way to see transitions with the memory store.
func newDemoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Create order 1001 and drive it to FINISH, printing the listing after each event",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			return withApp(ctx, opts, func(app *cmd.CompositionRoot) error {
				create, err := commands.NewCreateOrderCommand(kernel.NewUUID(), 1001, order.Unknown)
				if err != nil {
					return err
				}
				if err = app.CreateCreateOrderCommandHandler().Handle(ctx, create); err != nil {
					return err
				}

				change := app.CreateChangeOrderStatusCommandHandler()
				list := app.CreateListOrdersQueryHandler()
				for _, event := range []order.Event{order.Payed, order.Delivery, order.Received} {
					command, err := commands.NewChangeOrderStatusCommand(1001, event)
					if err != nil {
						return err
					}
					accepted, err := change.Handle(ctx, command)
					if err != nil {
						return err
					}
					orders, err := list.Handle(ctx, queries.NewListOrdersQuery())
					if err != nil {
						return err
					}
					fmt.Fprintf(c.OutOrStdout(), "%s accepted=%t %s\n", event.Code(), accepted, queries.FormatOrders(orders))
				}
				return nil
			})
		},
	}
}
