package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"tabdb"
	"tabdb/parser"
	"tabdb/query"
	"tabdb/value"
)

// shellCmd runs an interactive session over an embedded engine. Statements
// use the parser package's dialect; state lives only for the session.
func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run an interactive session against an in-process engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := tabdb.New()

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			fmt.Println("tabdb shell: in-memory session, state is lost on exit.")
			fmt.Println("Enter statements (CREATE TABLE / INSERT / SELECT), or \\q to quit.")

			for {
				input, err := line.Prompt("tabdb> ")
				if err != nil {
					if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
						fmt.Println()
						return nil
					}
					return err
				}

				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}
				if input == "\\q" || strings.EqualFold(input, "exit") {
					return nil
				}
				line.AppendHistory(input)

				if err := runStatement(engine, input, os.Stdout); err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
				}
			}
		},
	}
}

func runStatement(engine *tabdb.Engine, input string, out io.Writer) error {
	stmt, err := parser.Parse(input)
	if err != nil {
		return err
	}

	switch st := stmt.(type) {
	case *parser.CreateTableStmt:
		engine.CreateTable(st.Table, st.Columns)
		fmt.Fprintf(out, "table %q created\n", st.Table)
		return nil

	case *parser.InsertStmt:
		if err := engine.Insert(st.Table, st.Row); err != nil {
			return err
		}
		fmt.Fprintln(out, "1 row inserted")
		return nil

	case *parser.SelectStmt:
		rows, err := engine.Select(st.Table, st.Query)
		if err != nil {
			return err
		}
		printRows(out, engine, st.Table, st.Query, rows)
		return nil
	}
	return fmt.Errorf("unsupported statement %T", stmt)
}

func printRows(out io.Writer, engine *tabdb.Engine, table string, q query.Query, rows [][]value.Value) {
	header := q.Columns
	if header == nil {
		if schema, err := engine.Schema(table); err == nil {
			for _, col := range schema {
				header = append(header, col.Name)
			}
		}
	}
	fmt.Fprintln(out, strings.Join(header, " | "))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		fmt.Fprintln(out, strings.Join(cells, " | "))
	}
	fmt.Fprintf(out, "(%d rows)\n", len(rows))
}
