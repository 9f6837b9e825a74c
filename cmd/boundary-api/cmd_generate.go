package main

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/boundarycoach/boundary-api/internal/app/generation"
	"github.com/boundarycoach/boundary-api/internal/domain"
	"github.com/boundarycoach/boundary-api/internal/render"
)

var (
	generateUser string
	historyUser  string
	historyLimit int
	historyQuery string
)

var generateCmd = &cobra.Command{
	Use:   "generate <situation>",
	Short: "Generate boundary options for one situation and print them as Markdown",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List a user's stored generations, newest first",
	RunE:  runHistory,
}

func init() {
	generateCmd.Flags().StringVarP(&generateUser, "user", "u", "cli", "User id the record is stored under")

	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "cli", "User id to list")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum records to list")
	historyCmd.Flags().StringVarP(&historyQuery, "query", "q", "", "Only records whose situation contains this text")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	situation := strings.TrimSpace(strings.Join(args, " "))
	if n := utf8.RuneCountInString(situation); n > cfg.Server.MaxSituationLength {
		return fmt.Errorf("situation is %d characters, at most %d allowed", n, cfg.Server.MaxSituationLength)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.RequestTimeout)
	defer cancel()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.svc.Generate(ctx, generation.GenerateInput{
		Situation: situation,
		User:      &domain.User{ID: domain.UserID(generateUser)},
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), render.Markdown(out.Record))
	if out.Saved {
		fmt.Fprintf(cmd.OutOrStdout(), "\nsaved as %s\n", out.Record.ID)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "\nnot saved")
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := buildApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	recs, err := a.svc.ListGenerations(cmd.Context(), domain.UserID(historyUser), historyLimit, historyQuery)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no generations yet")
		return nil
	}

	w := cmd.OutOrStdout()
	for _, r := range recs {
		images := 0
		for _, v := range r.Response.VisualMoodLighteners {
			if v.ImageURL != "" {
				images++
			}
		}
		fmt.Fprintf(w, "%s  %s  %d/%d images  %s\n",
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			images, len(r.Response.VisualMoodLighteners),
			oneLine(r.SituationInput, 60))
	}
	return nil
}

func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
