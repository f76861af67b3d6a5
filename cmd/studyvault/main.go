package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkrech/studyvault/config"
	"github.com/mkrech/studyvault/internal/queue"
	"github.com/mkrech/studyvault/internal/session"
	"github.com/mkrech/studyvault/internal/srs"
	"github.com/mkrech/studyvault/internal/store"
)

const usage = `usage: studyvault [flags] <command> [args]

commands:
  add     add a card (basic, or expand a cloze/formula template)
  edit    rewrite a card's content, keeping its scheduling state
  topic   manage topics (add, list, rm, relate)
  list    list cards with their scheduling state
  review  run a review session
  due     show due counts
  stats   show today's stats, streak and retention
  seed    create starter topics and sample cards
`

type app struct {
	cfg    *config.Config
	store  *store.Store
	sched  *srs.Scheduler
	runner *session.Runner
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if strings.ToLower(cfg.LogLevel) == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if len(cfg.Args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	params := srs.DefaultParameters()
	params.RequestRetention = cfg.DesiredRetention
	params.MaximumInterval = float64(cfg.MaxIntervalDays)
	sched := srs.NewScheduler(params)

	a := &app{
		cfg:    cfg,
		store:  st,
		sched:  sched,
		runner: session.NewRunner(st, queue.NewBuilder(st, st), sched),
	}

	cmd, args := cfg.Args[0], cfg.Args[1:]
	switch cmd {
	case "add":
		err = a.cmdAdd(args)
	case "edit":
		err = a.cmdEdit(args)
	case "topic":
		err = a.cmdTopic(args)
	case "list":
		err = a.cmdList()
	case "review":
		err = a.cmdReview(args)
	case "due":
		err = a.cmdDue(args)
	case "stats":
		err = a.cmdStats()
	case "seed":
		err = a.cmdSeed()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("command failed")
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *app) cmdList() error {
	cards, err := a.store.AllCards()
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Println("no cards yet; try \"studyvault seed\"")
		return nil
	}
	now := srs.RealNower{}.Now()
	for i := range cards {
		c := &cards[i]
		due := "due now"
		if !srs.IsDue(c.Due(), now) {
			days := int(c.Due().Sub(now).Hours() / 24)
			due = "due in " + srs.FormatInterval(days)
		}
		fmt.Printf("%s  [%s/%s]  %s  (reviews: %d, recall: %.0f%%)\n",
			c.ID[:8], c.Type, srs.StateName(c.State()), due,
			c.ReviewCount(), a.sched.Retrievability(c.Memory, now)*100)
		fmt.Printf("    Q: %s\n", c.Front)
	}
	return nil
}
