package command

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/suffragio/suffragio/internal/sec"
	"github.com/suffragio/suffragio/internal/storage/db"
)

func voterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voter",
		Short: "Voter commands",
	}
	cmd.AddCommand(
		voterCreateCommand(),
		voterDeleteCommand(),
	)
	return cmd
}

func voterCreateCommand() *cobra.Command {
	var (
		firstName  string
		middleName string
		lastName   string
		dobRaw     string
		photoPath  string
	)

	cmd := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Register voter",
		Long: "Registers a voter and their credentials from the terminal, the same way the\n" +
			"web form does. Passwords may be provided via stdin or through the\n" +
			"interactive prompt.",

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			dob, err := time.Parse(time.DateOnly, dobRaw)
			if err != nil {
				return fmt.Errorf("date of birth must be YYYY-MM-DD: %w", err)
			}
			photo, err := os.ReadFile(photoPath) //nolint:gosec // operator-provided path
			if err != nil {
				return fmt.Errorf("failed to read photo file: %w", err)
			}

			name := args[0]
			if passwd, err := prompt("password: ", true); err != nil {
				return err
			} else if hash, err := sec.HashPassword(passwd); err != nil {
				return err
			} else if _, err = store.CreateVoter(cmd.Context(), db.Voter{
				FirstName:   firstName,
				MiddleName:  sql.NullString{String: middleName, Valid: middleName != ""},
				LastName:    lastName,
				DateOfBirth: dob,
				Photo:       photo,
				UserName:    name,
			}, hash); err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "registered voter", slog.String("user_name", name))
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "voter first name")
	cmd.Flags().StringVar(&middleName, "middle-name", "", "voter middle name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "voter last name")
	cmd.Flags().StringVar(&dobRaw, "dob", "", "voter date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&photoPath, "photo", "", "path to the voter photo image")
	for _, flag := range []string{"first-name", "last-name", "dob", "photo"} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}

func voterDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete USERNAME",
		Short: "Delete voter",
		Long: "Permanently deletes the voter and their credentials. " +
			"This operation is permanent and irreversible.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			name := args[0]
			logger = logger.With(slog.String("user_name", name))
			auth, err := store.GetAuthByName(cmd.Context(), name)
			if err != nil {
				return err
			}
			voter, err := store.GetVoter(cmd.Context(), auth.UserID)
			if err != nil {
				return err
			}
			resp, err := prompt(fmt.Sprintf(
				"Are you sure you want to delete %s %s (%s)? [y|N] ",
				voter.FirstName, voter.LastName, voter.UserName,
			), false)
			if !bytes.Equal(resp, []byte{'y'}) || err != nil {
				logger.InfoContext(cmd.Context(), "aborted voter deletion")
				return err
			}
			if err = store.DeleteVoter(cmd.Context(), auth.UserID); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "voter deleted")
			return nil
		},
	}
}
