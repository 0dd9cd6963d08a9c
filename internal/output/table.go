package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/and161185/staffdesk/internal/model"
)

// Table buffers rows and renders them borderless.
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a table writing to w.
func NewTable(w io.Writer, headers []string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	return &Table{table: table, header: headers}
}

// AddRow adds a row to the table
func (t *Table) AddRow(row []string) { t.rows = append(t.rows, row) }

// Render outputs the table
func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return err
	}
	return t.table.Render()
}

// EmployeeHeaders are the columns of the employee list.
var EmployeeHeaders = []string{"id", "name", "age", "gender", "role", "experience", "salary"}

// EmployeeTable renders employees as a list.
func EmployeeTable(w io.Writer, list []model.Employee) error {
	t := NewTable(w, EmployeeHeaders)
	for _, e := range list {
		t.AddRow([]string{
			e.ID,
			e.FullName(),
			strconv.Itoa(e.Age),
			e.Gender,
			e.Role,
			strconv.Itoa(e.YearsOfExperience),
			strconv.FormatInt(e.Salary, 10),
		})
	}
	return t.Render()
}

// EmployeeDetail renders a single employee as key/value pairs.
func EmployeeDetail(w io.Writer, e model.Employee) error {
	t := NewTable(w, []string{"field", "value"})
	t.AddRow([]string{"id", e.ID})
	t.AddRow([]string{"first name", e.FirstName})
	t.AddRow([]string{"last name", e.LastName})
	t.AddRow([]string{"age", strconv.Itoa(e.Age)})
	t.AddRow([]string{"gender", e.Gender})
	t.AddRow([]string{"role", e.Role})
	t.AddRow([]string{"experience", strconv.Itoa(e.YearsOfExperience)})
	t.AddRow([]string{"salary", strconv.FormatInt(e.Salary, 10)})
	t.AddRow([]string{"address", e.Address})
	return t.Render()
}
