// Command boutique-admin is the operator CLI: migrations, role grants, and
// catalog seeding live here rather than behind HTTP endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/solenne/boutique/config"
	"github.com/solenne/boutique/internal/bootstrap"
	"github.com/solenne/boutique/internal/data"
	domainauth "github.com/solenne/boutique/internal/domain/auth"
	"github.com/solenne/boutique/internal/domain/model"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const commandTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Apply pending database migrations",
			run:         runMigrate,
		},
		"grant-role": {
			name:        "grant-role",
			description: "Set a user's role (-user <id> -role <admin|member>)",
			run:         runGrantRole,
		},
		"add-piece": {
			name:        "add-piece",
			description: "Add a catalog entry (-title, -house, -class, -price, -image)",
			run:         runAddPiece,
		},
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: boutique-admin <command> [flags]")
	fmt.Fprintln(os.Stderr)
	tw := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, cmd := range commands() {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.name, cmd.description)
	}
	tw.Flush()
}

func runMigrate(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
}

func runGrantRole(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("grant-role", flag.ContinueOnError)
	userID := fs.String("user", "", "user ID to update")
	roleName := fs.String("role", "", "role to grant (admin or member)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" {
		return errors.New("grant-role: -user is required")
	}

	var role domainauth.Role
	switch *roleName {
	case "admin":
		role = domainauth.RoleAdmin
	case "member":
		role = domainauth.RoleMember
	default:
		return fmt.Errorf("grant-role: invalid role %q (valid: admin, member)", *roleName)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	updated, err := data.NewProfileRepo(db).SetRole(ctx, *userID, role)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("grant-role: no profile found for user %q (they must sign in once first)", *userID)
	}

	cmdCtx.Logger.InfoContext(ctx, "role granted", "user_id", *userID, "role", role)
	return nil
}

func runAddPiece(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("add-piece", flag.ContinueOnError)
	title := fs.String("title", "", "piece title")
	house := fs.String("house", "", "maison or maker")
	class := fs.String("class", string(model.AssetClassTimepiece), "asset class")
	price := fs.Float64("price", 0, "list price")
	image := fs.String("image", "", "image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	piece, err := data.NewProductRepo(db).Create(ctx, &model.CreateProductRequest{
		Title:      *title,
		House:      *house,
		AssetClass: model.AssetClass(*class),
		Price:      *price,
		Image:      *image,
	})
	if err != nil {
		return err
	}

	cmdCtx.Logger.InfoContext(ctx, "piece added", "id", piece.ID, "title", piece.Title)
	return nil
}
