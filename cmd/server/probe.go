package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/content-calendar-api/internal/ai"
	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/pkg/logger"
	"github.com/spf13/cobra"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send a test prompt to the text model and print the reply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return err
		}

		log := logger.New(cfg.Log)
		ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		defer cancel()

		gemini, err := ai.NewGeminiClient(ctx, &cfg.GenAI, log)
		if err != nil {
			return err
		}

		reply, err := gemini.GenerateText(ctx, "Explain how AI works")
		if err != nil {
			return fmt.Errorf("probe failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(reply))
		return nil
	},
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 30*time.Second, "request timeout")
}
