package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/output"
)

func newListCmd(c *cli) *cobra.Command {
	var (
		query  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List employees, optionally filtered by name",
		Args:    cobra.NoArgs,
		RunE: c.protected(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			if _, err := c.app.Employees.FetchAll(ctx); err != nil {
				return err
			}
			c.app.Employees.SetSearchFilter(query)
			list := c.app.Employees.Filtered()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			if len(list) == 0 {
				c.printer.Info("No employees found")
				return nil
			}
			return output.EmployeeTable(cmd.OutOrStdout(), list)
		}),
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive match on first and last name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: c.protected(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			e, err := c.lookup(ctx, args[0])
			if err != nil {
				return err
			}
			return output.EmployeeDetail(cmd.OutOrStdout(), e)
		}),
	}
}

func newAddCmd(c *cli) *cobra.Command {
	var f model.EmployeeFields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: c.protected(func(ctx context.Context, _ *cobra.Command, _ []string) error {
			e, err := c.app.Employees.Add(ctx, f)
			if err != nil {
				return err
			}
			c.printer.Success("Added %s (%s)", e.FullName(), e.ID)
			return nil
		}),
	}
	bindFields(cmd.Flags(), &f)
	for _, name := range []string{"first-name", "last-name", "age", "gender", "role", "experience", "salary", "address"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newEditCmd(c *cli) *cobra.Command {
	var f model.EmployeeFields
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an employee; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: c.protected(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			cur, err := c.lookup(ctx, args[0])
			if err != nil {
				return err
			}

			merged := mergeFields(cmd.Flags(), cur.EmployeeFields, f)
			e, err := c.app.Employees.Update(ctx, cur.ID, merged)
			if err != nil {
				return err
			}
			c.printer.Success("Updated %s (%s)", e.FullName(), e.ID)
			return nil
		}),
	}
	bindFields(cmd.Flags(), &f)
	return cmd
}

func newRmCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an employee",
		Args:    cobra.ExactArgs(1),
		RunE: c.protected(func(ctx context.Context, _ *cobra.Command, args []string) error {
			id := args[0]
			if !yes {
				answer, err := c.prompt(fmt.Sprintf("Are you sure you want to delete employee %s? [y/N] ", id))
				if err != nil {
					return err
				}
				if a := strings.ToLower(answer); a != "y" && a != "yes" {
					c.printer.Info("Cancelled")
					return nil
				}
			}
			if err := c.app.Employees.Delete(ctx, id); err != nil {
				return err
			}
			c.printer.Success("Deleted %s", id)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// lookup returns id from the cache, fetching the collection when it is not there.
func (c *cli) lookup(ctx context.Context, id string) (model.Employee, error) {
	if e, ok := c.app.Employees.Select(id); ok {
		return e, nil
	}
	if _, err := c.app.Employees.FetchAll(ctx); err != nil {
		return model.Employee{}, err
	}
	if e, ok := c.app.Employees.Select(id); ok {
		return e, nil
	}
	return model.Employee{}, &output.CLIError{
		Summary:    fmt.Sprintf("employee %s not found", id),
		Suggestion: "run 'sd list' to see current ids",
		ExitCode:   output.ExitGeneral,
		Err:        errs.ErrNotFound,
	}
}

func bindFields(fs *pflag.FlagSet, f *model.EmployeeFields) {
	fs.StringVar(&f.FirstName, "first-name", "", "first name (2-50 characters)")
	fs.StringVar(&f.LastName, "last-name", "", "last name (2-50 characters)")
	fs.IntVar(&f.Age, "age", 0, "age (18-65)")
	fs.StringVar(&f.Gender, "gender", "", "Male or Female")
	fs.StringVar(&f.Role, "role", "", "job role (up to 100 characters)")
	fs.IntVar(&f.YearsOfExperience, "experience", 0, "years of experience (0-40)")
	fs.Int64Var(&f.Salary, "salary", 0, "yearly salary (10000-10000000)")
	fs.StringVar(&f.Address, "address", "", "postal address (up to 500 characters)")
}

// mergeFields overlays the flags the user actually set onto cur.
func mergeFields(fs *pflag.FlagSet, cur, in model.EmployeeFields) model.EmployeeFields {
	out := cur
	if fs.Changed("first-name") {
		out.FirstName = in.FirstName
	}
	if fs.Changed("last-name") {
		out.LastName = in.LastName
	}
	if fs.Changed("age") {
		out.Age = in.Age
	}
	if fs.Changed("gender") {
		out.Gender = in.Gender
	}
	if fs.Changed("role") {
		out.Role = in.Role
	}
	if fs.Changed("experience") {
		out.YearsOfExperience = in.YearsOfExperience
	}
	if fs.Changed("salary") {
		out.Salary = in.Salary
	}
	if fs.Changed("address") {
		out.Address = in.Address
	}
	return out
}
