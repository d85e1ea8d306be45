package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"user-record-service/cmd/api/app"
	"user-record-service/cmd/api/di"
	"user-record-service/internal/config"
	"user-record-service/internal/usecase/user"
	apperrors "user-record-service/pkg/errors"
	"user-record-service/pkg/logger"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// options holds flag values shared by every subcommand.
type options struct {
	output string
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds a fresh command tree. Tests call it once per case.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "user-record-service",
		Short: "Store and query user records",
		Long: `user-record-service keeps user records (id, name, age) in a relational
database. Records can be managed from the command line or served over HTTP
(and optionally gRPC) with the server command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputText && opts.output != outputJSON {
				return apperrors.NewValidationError("output", fmt.Sprintf("unsupported output format %q: expected text or json", opts.output))
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("connect-string", config.DefaultConnectString,
		"database connect string: sqlite://<path>, sqlite::memory:, file:<path>, postgres://...")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")

	cmd.AddCommand(
		newCreateCmd(),
		newGetCmd(opts),
		newDeleteCmd(),
		newServerCmd(),
	)
	return cmd
}

// withContainer loads configuration, builds a logger and the store-backed
// container, runs fn and releases everything. One-shot commands log at warn
// unless LOG_LEVEL says otherwise.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *di.Container) error) error {
	cfg, err := app.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	l, err := app.NewLogger(cfg, "warn")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync(l) }()

	c, err := di.NewContainer(cfg, l)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return fn(cmd.Context(), c)
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <age>",
		Short: "Create a user",
		Long: `Create a user with a freshly generated id. Age must be an integer in 0..255.

Put -- before the arguments when one starts with a dash, otherwise it is read
as a flag:

  user-record-service create -- Ann -1`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := strconv.Atoi(args[1])
			if err != nil {
				return apperrors.NewValidationError("age", fmt.Sprintf("%q is not an integer", args[1]))
			}

			return withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				_, err := c.UserUC.CreateUser(ctx, user.CreateUserRequest{Name: args[0], Age: age})
				return err
			})
		},
	}
}

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one user, or every user when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				out := cmd.OutOrStdout()

				if len(args) == 1 {
					u, err := c.UserUC.GetUser(ctx, user.GetUserRequest{ID: args[0]})
					if err != nil {
						return err
					}
					return printUser(out, opts.output, u)
				}

				users, err := c.UserUC.ListUsers(ctx)
				if err != nil {
					return err
				}
				for i := range users {
					if err := printUser(out, opts.output, &users[i]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user; deleting an unknown id succeeds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				return c.UserUC.DeleteUser(ctx, user.DeleteUserRequest{ID: args[0]})
			})
		},
	}
}

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Serve the HTTP API (and gRPC when GRPC_ENABLED=true) until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			l, err := app.NewLogger(cfg, "info")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync(l) }()

			a, err := app.New(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}

// userJSON is the --output json form of a user.
type userJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  uint8  `json:"age"`
}

func printUser(w io.Writer, format string, u *user.User) error {
	if format == outputJSON {
		return json.NewEncoder(w).Encode(userJSON{ID: u.ID.String(), Name: u.Name, Age: u.Age})
	}
	_, err := fmt.Fprintf(w, "id=%s name=%q age=%d\n", u.ID, u.Name, u.Age)
	return err
}
