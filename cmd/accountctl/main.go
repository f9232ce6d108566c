// Command accountctl is the ops companion to the server: it creates accounts
// and projects and grants memberships directly against the database, since
// the account workflow itself never mutates membership records.
//
// Usage:
//
//	accountctl [-d dsn] adduser -email a@x.com -username alice
//	accountctl [-d dsn] addproject -name "My project"
//	accountctl [-d dsn] grant -user alice [-project id] [-group id]
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"projecthub/internal/common"
	"projecthub/internal/flagx"
	"projecthub/internal/server/config"
	"projecthub/internal/server/repositories/repomanager"
	"projecthub/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	projectService := services.NewProjectService(db, rm)
	userService := services.NewUserService(db, rm, projectService)
	credentialsService := services.NewCredentialsService(db, rm)
	sessionService := services.NewSessionService(db, rm, cfg)
	authService := services.NewAuthService(userService, credentialsService, sessionService)

	switch os.Args[1] {
	case "adduser":
		err = runAddUser(ctx, authService)
	case "addproject":
		err = runAddProject(ctx, projectService)
	case "grant":
		err = runGrant(ctx, db, rm, userService)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: accountctl [-d dsn] adduser|addproject|grant [flags]")
}

func runAddUser(ctx context.Context, auth *services.AuthService) error {
	var email, username string

	args := flagx.FilterArgs(os.Args[2:], []string{"-email", "-username"})
	fs := flag.NewFlagSet("adduser", flag.ExitOnError)
	fs.StringVar(&email, "email", "", "email of the new account")
	fs.StringVar(&username, "username", "", "username of the new account")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	result, err := auth.SignUp(ctx, services.SignUpArgs{
		Credentials: services.Credentials{Email: email, Password: string(password)},
		Username:    username,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created account for %s\n", result.Email)
	return nil
}

func runAddProject(ctx context.Context, projects *services.ProjectService) error {
	var name string

	args := flagx.FilterArgs(os.Args[2:], []string{"-name"})
	fs := flag.NewFlagSet("addproject", flag.ExitOnError)
	fs.StringVar(&name, "name", "", "name of the new project")
	if err := fs.Parse(args); err != nil {
		return err
	}

	project, err := projects.Create(ctx, name)
	if err != nil {
		return err
	}

	fmt.Printf("created project %s (%s)\n", project.Name, project.ID)
	return nil
}

func runGrant(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, users *services.UserService) error {
	var usernameOrEmail, projectID, groupID string

	args := flagx.FilterArgs(os.Args[2:], []string{"-user", "-project", "-group"})
	fs := flag.NewFlagSet("grant", flag.ExitOnError)
	fs.StringVar(&usernameOrEmail, "user", "", "username or email of the member")
	fs.StringVar(&projectID, "project", "", "project id to grant membership in")
	fs.StringVar(&groupID, "group", "", "group id to grant membership in")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if projectID == "" && groupID == "" {
		return fmt.Errorf("either -project or -group is required")
	}

	user, err := users.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return fmt.Errorf("resolving user %q: %w", usernameOrEmail, err)
	}

	memberships := rm.Memberships(db)

	if projectID != "" {
		if err := memberships.AddToProject(ctx, user.ID, projectID); err != nil {
			return err
		}
		fmt.Printf("granted %s membership in project %s\n", usernameOrEmail, projectID)
	}

	if groupID != "" {
		if err := memberships.AddToGroup(ctx, user.ID, groupID); err != nil {
			return err
		}
		fmt.Printf("granted %s membership in group %s\n", usernameOrEmail, groupID)
	}

	return nil
}

// promptPassword reads the password twice from the terminal without echo and
// makes sure both entries match.
func promptPassword() ([]byte, error) {
	fmt.Print("Enter password: ")
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	fmt.Print("Repeat password: ")
	confirmation, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		common.WipeByteArray(password)
		return nil, err
	}
	defer common.WipeByteArray(confirmation)

	if !bytes.Equal(password, confirmation) {
		common.WipeByteArray(password)
		return nil, fmt.Errorf("passwords do not match")
	}

	return password, nil
}
