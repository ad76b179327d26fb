package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/datagent/internal/app/conversation"
	"github.com/PabloGalante/datagent/internal/domain"
	"github.com/PabloGalante/datagent/internal/tui"
)

func newChatCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive terminal chat widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			holder := conversation.NewHolder(buildResponder(ctx, cfg), domain.ParseMode(mode))

			_, err = tea.NewProgram(tui.New(ctx, holder), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(domain.ModeQuery), "initial mode: query, report or analysis")
	return cmd
}
