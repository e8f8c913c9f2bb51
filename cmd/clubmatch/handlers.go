package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/internal/pipeline"
	"github.com/ymatsuda/clubmatch/internal/scheduler"
	"github.com/ymatsuda/clubmatch/internal/store"
	"github.com/ymatsuda/clubmatch/pkg/alert"
	"github.com/ymatsuda/clubmatch/pkg/recommend"
	"github.com/ymatsuda/clubmatch/pkg/server"
	"github.com/ymatsuda/clubmatch/pkg/source"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// buildRunner wires every feature job. Order matters for the DB-only
// jobs: tickets reads the attendance figures written just before it.
func buildRunner(cfg *config.Config, db store.Store) *pipeline.Runner {
	client := source.NewClient(cfg.Sources.ParseRequestDelay())

	stats := source.NewStatRankings(client, cfg.Sources.League.BaseURL)
	ratings := source.NewRatings(client, cfg.Sources.Stats.BaseURL)
	standings := source.NewStandings(client, cfg.Sources.Stats.BaseURL)
	form := source.NewRecentForm(client, cfg.Sources.League.BaseURL)
	transfers := source.NewTransfers(client, cfg.Sources.League.BaseURL)
	attendance := source.NewAttendance(client, cfg.Sources.Data.BaseURL)
	social := source.NewSocial(client, cfg.Sources.Social.APIBaseURL, cfg.Sources.Social.YouTubeAPIKey)
	news := source.NewClubNews(client, cfg.Sources.News.ParseWindow())

	return pipeline.NewRunner(
		pipeline.NewPlayStyleJob(db, stats, ratings, client, cfg),
		pipeline.NewLongTermStrengthJob(db, standings, client, cfg),
		pipeline.NewShortTermStrengthJob(db, form, client, cfg),
		pipeline.NewTitlesJob(db, cfg),
		pipeline.NewYouthJob(db, transfers, client, cfg),
		pipeline.NewPopularityJob(db, social, client, cfg),
		pipeline.NewSupporterHeatJob(db, news, cfg),
		pipeline.NewAttendanceJob(db, attendance, client, cfg),
		pipeline.NewTicketsJob(db, cfg),
		pipeline.NewFinanceJob(db, cfg),
	)
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runSeed(clubsOnly, questionsOnly bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if !questionsOnly {
		clubs, err := store.LoadClubSeeds(cfg.Seeds.ClubsFile)
		if err != nil {
			return err
		}
		n, err := db.SeedClubs(ctx, clubs)
		if err != nil {
			return fmt.Errorf("seed clubs: %w", err)
		}
		fmt.Fprintf(os.Stderr, "seeded %d clubs\n", n)
	}

	if !clubsOnly {
		questions, err := store.LoadQuestionSeeds(cfg.Seeds.QuestionsFile)
		if err != nil {
			return err
		}
		if err := db.ReplaceQuestions(ctx, questions); err != nil {
			return fmt.Errorf("seed questions: %w", err)
		}
		fmt.Fprintf(os.Stderr, "seeded %d questions\n", len(questions))
	}

	return nil
}

func runCollect(jobs []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	var names []string
	for _, j := range jobs {
		names = append(names, strings.TrimSpace(j))
	}

	return buildRunner(cfg, db).Run(context.Background(), names...)
}

func runRecommend(rawAnswers []string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	answers, err := parseAnswers(rawAnswers)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	engine := recommend.NewEngine(db, cfg.Scoring.TopN)
	results, err := engine.Recommend(context.Background(), answers)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("no clubs found (seed the database first: clubmatch seed)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tCLUB\tDIVISION\tLOCATION")
	for _, r := range results {
		fmt.Fprintf(w, "%.1f\t%s\tJ%d\t%s\n", r.Score, r.Club.Name, r.Club.Division, r.Club.Location)
	}
	return w.Flush()
}

// parseAnswers turns question:choice pairs from the command line into
// answers.
func parseAnswers(raw []string) ([]recommend.Answer, error) {
	var answers []recommend.Answer
	for _, pair := range raw {
		q, c, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid answer %q, want question:choice", pair)
		}
		questionID, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid question id in %q", pair)
		}
		choiceID, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid choice id in %q", pair)
		}
		answers = append(answers, recommend.Answer{QuestionID: questionID, ChoiceID: choiceID})
	}
	return answers, nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	engine := recommend.NewEngine(db, cfg.Scoring.TopN)
	srv := server.New(db, engine, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(buildRunner(cfg, db), buildAlertManager(cfg), cfg.Schedule.Jobs, cfg.Schedule.ParseCollectInterval())

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	engine := recommend.NewEngine(db, cfg.Scoring.TopN)
	srv := server.New(db, engine, port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}
