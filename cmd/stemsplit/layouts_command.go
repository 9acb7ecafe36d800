package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stemsplit/internal/layout"
)

func newLayoutsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "layouts",
		Short:       "List the channel layouts stemsplit can resolve",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			caser := cases.Title(language.English)

			descriptors := layout.All()
			rows := make([][]string, 0, len(descriptors))
			for _, desc := range descriptors {
				names := make([]string, 0, len(desc.Roles))
				for _, role := range desc.Roles {
					names = append(names, caser.String(string(role)))
				}
				rows = append(rows, []string{
					desc.ID,
					strconv.Itoa(desc.ChannelCount()),
					strings.Join(names, ", "),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Layout", "Ch", "Roles"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
