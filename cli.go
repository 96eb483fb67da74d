package selaras

import (
	"context"
	"log"
	"strconv"

	"github.com/spf13/cobra"
)

type CliConfig struct {
	Selaras *Selaras
	CliName string
}

type Cli struct {
	selaras *Selaras
	cliName string
}

func NewCli(config CliConfig) (*Cli, error) {
	if config.Selaras == nil {
		return nil, ErrSelarasNotProvided
	}
	if config.CliName == "" {
		config.CliName = "selaras"
	}

	return &Cli{
		selaras: config.Selaras,
		cliName: config.CliName,
	}, nil
}

func (c *Cli) Execute(ctx context.Context) error {
	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "List all changesets and their execution state",
		Run: func(cmd *cobra.Command, args []string) {
			statuses, err := c.selaras.Status(ctx)
			if err != nil {
				log.Println("Error listing changesets:", err)
				return
			}
			statuses.Print()
		},
	}

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Apply all pending changesets",
		Run: func(cmd *cobra.Command, args []string) {
			err := c.selaras.Update(ctx)
			if err != nil {
				log.Println("Error applying changesets:", err)
				return
			}
		},
	}

	var rollbackCmd = &cobra.Command{
		Use:   "rollback",
		Short: "Rollback the most recently applied changeset",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			var err error
			step := 1
			stepFlag := cmd.Flags().Lookup("step")
			if stepFlag != nil && stepFlag.Changed {
				step, err = strconv.Atoi(stepFlag.Value.String())
				if err != nil {
					log.Println("Invalid step:", err)
					return
				}
				if step < 1 {
					log.Println("Step must be greater than 0")
					return
				}
			}

			err = c.selaras.Rollback(ctx, step)
			if err != nil {
				log.Println("Error rolling back changesets:", err)
				return
			}
		},
	}

	rollbackCmd.Flags().IntP("step", "s", 1, "Number of changesets to rollback")

	var resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Rollback all changesets and re-apply the changelog",
		Run: func(cmd *cobra.Command, args []string) {
			err := c.selaras.Reset(ctx)
			if err != nil {
				log.Println("Error resetting changelog:", err)
				return
			}
		},
	}

	var validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate all registered change definitions",
		Run: func(cmd *cobra.Command, args []string) {
			err := c.selaras.ValidateChanges()
			if err != nil {
				log.Println("Validation failed:", err)
				return
			}
			log.Println("All change definitions are valid")
		},
	}

	var createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a new changeset file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			author, _ := cmd.Flags().GetString("author")
			err := c.selaras.Create(args[0], author)
			if err != nil {
				log.Println("Error creating changeset:", err)
				return
			}
		},
	}

	createCmd.Flags().StringP("author", "a", "", "Author recorded in the changeset identity")

	var rootCmd = &cobra.Command{
		Use: c.cliName,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(
		statusCmd,
		updateCmd,
		rollbackCmd,
		resetCmd,
		validateCmd,
		createCmd,
	)

	return rootCmd.Execute()
}
