package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpggio/projectboard/internal/domain/project"
)

func newAddCmd(root *rootOptions) *cobra.Command {
	var title, description, people string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add an active project",
		Example: `  projectboard add --title "Build API" --description "Expose the board" --people 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := project.ParsePeople(people)
			if err != nil {
				return err
			}
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			proj, err := a.Projects.Create(cmd.Context(), project.CreateRequest{
				Title:       title,
				Description: description,
				People:      n,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %q\n", proj.ID, proj.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "project title")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&people, "people", "", "number of people")
	return cmd
}

func newListCmd(root *rootOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			projects, err := a.Projects.List(cmd.Context(), project.ListOptions{Status: project.Status(status)})
			if err != nil {
				return err
			}
			return writeProjects(cmd.OutOrStdout(), projects)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only list active or finished projects")
	return cmd
}

func newMoveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <active|finished>",
		Short: "Move a project to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			proj, changed, err := a.Projects.Move(cmd.Context(), args[0], project.Status(args[1]))
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", proj.ID, proj.Status)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %s to %s\n", proj.ID, proj.Status)
			return nil
		},
	}
}

func writeProjects(w io.Writer, projects []project.Project) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPEOPLE\tTITLE")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ID, p.Status, p.People, p.Title)
	}
	return tw.Flush()
}
