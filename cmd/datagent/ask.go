package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/datagent/internal/app/conversation"
	"github.com/PabloGalante/datagent/internal/domain"
)

func newAskCommand() *cobra.Command {
	var (
		mode   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a single question and print the reply",
		Example: `  datagent ask --mode report 导出各省份销售数据报表
  datagent ask --json 本月营收是多少?`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			holder := conversation.NewHolder(buildResponder(ctx, cfg), domain.ParseMode(mode))

			reply, err := holder.Submit(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reply)
			}

			fmt.Fprintln(out, reply.Content)
			for _, p := range reply.Chart {
				if p.Secondary != nil {
					fmt.Fprintf(out, "%s\t%g\t%g\n", p.Label, p.Value, *p.Secondary)
				} else {
					fmt.Fprintf(out, "%s\t%g\n", p.Label, p.Value)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(domain.ModeQuery), "mode: query, report or analysis")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reply entry as JSON")
	return cmd
}
