package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/app"
	"github.com/optimapped/optimapped/internal/auth"
	"github.com/optimapped/optimapped/internal/insights"
	"github.com/optimapped/optimapped/internal/llm"
	"github.com/optimapped/optimapped/internal/persistence"
	"github.com/optimapped/optimapped/internal/screen"
)

// runApp opens the stores, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	var authOpts []auth.Option
	if e.cfg.OAuth.Enabled() {
		flow := auth.NewGoogleFlow(auth.GoogleConfig{
			ClientID:     e.cfg.OAuth.ClientID,
			ClientSecret: e.cfg.OAuth.ClientSecret,
			Port:         e.cfg.OAuth.Port,
		}, e.log)
		authOpts = append(authOpts, auth.WithGoogle(flow))
	}
	authSvc := auth.NewService(e.st.AccountRepo(), e.session(), e.log, authOpts...)

	// Insights are optional: without a provider the requestor answers
	// every request with the configuration error.
	var provider llm.Provider
	cfg := e.cfg.LLM
	p, err := llm.NewProvider(ctx, cfg, e.st.EventRepo(), e.log)
	if err != nil {
		e.log.Warn("LLM provider not configured", zap.Error(err))
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI insights will be unavailable.")
	} else {
		provider = p
	}

	deps := &screen.Deps{
		Auth:     authSvc,
		Store:    persistence.New(e.docs, e.local, e.log),
		Insights: insights.New(provider, e.log, insights.WithTimeout(cfg.Timeout)),
		Log:      e.log,
	}
	return app.Run(ctx, deps)
}
