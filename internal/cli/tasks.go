package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/TWRT/kanbanize-sync/internal/models"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every task on the board as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			board, err := a.requireBoard()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}

			tasks, err := c.ListTasks(cmd.Context(), board)
			if err != nil {
				return err
			}
			docs := make([]models.Document, len(tasks))
			for i, t := range tasks {
				docs[i] = t.Raw
			}
			return printJSON(cmd.OutOrStdout(), docs)
		},
	}
}

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get TASKID",
		Short: "Print the details of one task as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			board, err := a.requireBoard()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.GetTask(cmd.Context(), board, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), task.Raw)
		},
	}
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TASKID",
		Short: "Delete a task from the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			board, err := a.requireBoard()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}

			res, err := c.DeleteTask(cmd.Context(), board, args[0])
			if err != nil {
				return err
			}
			if !res.OK {
				return fmt.Errorf("delete task id:%s not confirmed: %s", args[0], res.Reason)
			}
			a.log.WithField("taskid", args[0]).Infof("deleted task id:%s", args[0])
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
