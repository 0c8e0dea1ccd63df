package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"taskflow/internal/models"
	"taskflow/internal/presentation"
)

func (a *app) listCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show tasks, optionally for one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" {
				a.session.Page.SelectCategoryFilter(a.ctx(cmd), a.resolveCategory(category))
			}
			return a.session.Page.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name (all for every task)")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	d := presentation.NewTaskDraft()
	var priority string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Category = a.resolveCategory(d.Category)
			d.Priority = models.Priority(priority)
			errs, ok := a.session.Page.CreateTask(a.ctx(cmd), d)
			printFieldErrors(cmd, errs)
			if err := a.session.Page.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			return result(ok)
		},
	}
	cmd.Flags().StringVarP(&d.Title, "title", "t", "", "task title (required)")
	cmd.Flags().StringVarP(&d.Category, "category", "c", "", "category id or name (required)")
	cmd.Flags().StringVarP(&d.Description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&d.DueDate, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(models.PriorityMedium), "low, medium or high")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var title, category, description, due, priority, status string
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := a.session.Page
			task, found := page.View().Tasks.Find(args[0])
			if !found {
				a.session.Notes.Error(a.ctx(cmd), "Task not found")
				return errIntentFailed
			}
			d := presentation.DraftFrom(task)
			flags := cmd.Flags()
			if flags.Changed("title") {
				d.Title = title
			}
			if flags.Changed("category") {
				d.Category = a.resolveCategory(category)
			}
			if flags.Changed("description") {
				d.Description = description
			}
			if flags.Changed("due") {
				d.DueDate = due
			}
			if flags.Changed("priority") {
				d.Priority = models.Priority(priority)
			}
			if flags.Changed("status") {
				d.Status = models.Status(status)
			}
			errs, ok := page.EditTask(a.ctx(cmd), task.ID, d)
			printFieldErrors(cmd, errs)
			if err := page.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			return result(ok)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category id or name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&due, "due", "", "new due date, YYYY-MM-DD (empty clears it)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&status, "status", "s", "", "pending or completed")
	return cmd
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := a.session.Page.ToggleTask(a.ctx(cmd), args[0])
			if err := a.session.Page.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			return result(ok)
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := a.session.Page.DeleteTask(a.ctx(cmd), args[0])
			if err := a.session.Page.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			return result(ok)
		},
	}
}

func (a *app) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and manage categories",
		Args:    cobra.NoArgs,
		RunE:    a.renderCategories,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories with their task counts",
		Args:  cobra.NoArgs,
		RunE:  a.renderCategories,
	}

	d := presentation.NewCategoryDraft()
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			errs, ok := a.session.Page.AddCategory(a.ctx(cmd), d)
			printFieldErrors(cmd, errs)
			if err := a.renderCategories(cmd, args); err != nil {
				return err
			}
			return result(ok)
		},
	}
	add.Flags().StringVarP(&d.Name, "name", "n", "", "category name (required)")
	add.Flags().StringVar(&d.Color, "color", models.DefaultColor, "hex color")

	del := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category no task uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := a.session.Page.DeleteCategory(a.ctx(cmd), a.resolveCategory(args[0]))
			if err := a.renderCategories(cmd, args); err != nil {
				return err
			}
			return result(ok)
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

func (a *app) renderCategories(cmd *cobra.Command, _ []string) error {
	return presentation.RenderCategories(cmd.OutOrStdout(), a.session.Page.View())
}

func printFieldErrors(cmd *cobra.Command, errs models.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		cmd.PrintErrf("  %s: %s\n", field, errs[field])
	}
}
