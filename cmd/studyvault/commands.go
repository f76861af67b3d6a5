package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/namsral/flag"

	"github.com/mkrech/studyvault/internal/deck"
	"github.com/mkrech/studyvault/internal/srs"
	"github.com/mkrech/studyvault/internal/store"
)

func (a *app) cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	cardType := fs.String("type", "basic", "card type: basic, cloze or formula")
	topics := fs.String("topics", "", "comma-separated topic ids")
	tags := fs.String("tags", "", "comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()

	topicIDs := splitList(*topics)
	tagList := splitList(*tags)
	now := time.Now()

	switch deck.CardType(*cardType) {
	case deck.CardTypeBasic:
		if len(rest) != 2 {
			return errors.New("basic cards need a front and a back argument")
		}
		card := deck.NewCard(deck.NewCardInput{
			Type:     deck.CardTypeBasic,
			Front:    rest[0],
			Back:     rest[1],
			TopicIDs: topicIDs,
			Tags:     tagList,
		}, now)
		if err := a.store.InsertCard(card); err != nil {
			return err
		}
		fmt.Printf("added card %s\n", card.ID)
		return nil

	case deck.CardTypeCloze:
		if len(rest) != 1 {
			return errors.New("cloze cards take a single template argument")
		}
		template := rest[0]
		expanded := deck.GenerateClozeCards(template)
		if len(expanded) == 0 {
			return errors.New("template contains no cloze deletions ({{c1::...}})")
		}
		for _, e := range expanded {
			card := deck.NewCard(deck.NewCardInput{
				Type:       deck.CardTypeCloze,
				Front:      e.Front,
				Back:       e.Back,
				TopicIDs:   topicIDs,
				Tags:       tagList,
				Template:   template,
				ClozeIndex: e.ClozeIndex,
			}, now)
			if err := a.store.InsertCard(card); err != nil {
				return err
			}
		}
		fmt.Printf("added %d cloze cards\n", len(expanded))
		return nil

	case deck.CardTypeFormula:
		if len(rest) != 1 {
			return errors.New("formula cards take a single template argument")
		}
		template := rest[0]
		expanded := deck.GenerateFormulaCards(template)
		if len(expanded) == 0 {
			return errors.New("template contains no formula ({{f::name::formula}})")
		}
		for _, e := range expanded {
			card := deck.NewCard(deck.NewCardInput{
				Type:     deck.CardTypeFormula,
				Front:    e.Front,
				Back:     e.Back,
				TopicIDs: topicIDs,
				Tags:     tagList,
				Template: template,
			}, now)
			if err := a.store.InsertCard(card); err != nil {
				return err
			}
		}
		fmt.Printf("added %d formula cards\n", len(expanded))
		return nil

	default:
		return fmt.Errorf("unknown card type %q", *cardType)
	}
}

func (a *app) cmdEdit(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	topics := fs.String("topics", "", "comma-separated topic ids")
	tags := fs.String("tags", "", "comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 3 {
		return errors.New("usage: studyvault edit [flags] <card-id> <front> <back>")
	}

	card, err := a.store.CardByID(rest[0])
	if err != nil {
		return err
	}
	if card == nil {
		return fmt.Errorf("no card with id %s", rest[0])
	}

	topicIDs := card.TopicIDs
	if *topics != "" {
		topicIDs = splitList(*topics)
	}
	tagList := card.Tags
	if *tags != "" {
		tagList = splitList(*tags)
	}
	if err := a.store.UpdateCardContent(card.ID, rest[1], rest[2], topicIDs, tagList, time.Now()); err != nil {
		return err
	}
	fmt.Printf("updated card %s\n", card.ID)
	return nil
}

func (a *app) cmdTopic(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: studyvault topic add|list|rm|relate ...")
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "add":
		fs := flag.NewFlagSet("topic add", flag.ContinueOnError)
		parent := fs.String("parent", "", "parent topic id")
		related := fs.String("related", "", "comma-separated related topic ids")
		color := fs.String("color", "", "display color")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if len(fs.Args()) != 1 {
			return errors.New("topic add takes a single name argument")
		}
		t, err := a.store.CreateTopic(store.CreateTopicInput{
			Name:            fs.Args()[0],
			ParentID:        *parent,
			Color:           *color,
			RelatedTopicIDs: splitList(*related),
		}, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("added topic %s (%s)\n", t.Name, t.ID)
		return nil

	case "list":
		topics, err := a.store.AllTopics()
		if err != nil {
			return err
		}
		counts, err := a.store.CardCountsByTopic()
		if err != nil {
			return err
		}
		printTopicTree(deck.BuildTopicTree(topics), counts, 0)
		return nil

	case "rm":
		if len(args) != 1 {
			return errors.New("topic rm takes a single topic id")
		}
		return a.store.DeleteTopic(args[0])

	case "relate":
		if len(args) != 2 {
			return errors.New("usage: studyvault topic relate <topic-id> <related-ids>")
		}
		t, err := a.store.TopicByID(args[0])
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("no topic with id %s", args[0])
		}
		t.RelatedTopicIDs = splitList(args[1])
		t.UpdatedAt = time.Now()
		return a.store.UpdateTopic(t)

	default:
		return fmt.Errorf("unknown topic subcommand %q", sub)
	}
}

func printTopicTree(nodes []*deck.TopicNode, counts map[string]int, depth int) {
	for _, n := range nodes {
		fmt.Printf("%s%s  (%s, %d cards)\n", strings.Repeat("  ", depth), n.Name, n.ID, counts[n.ID])
		printTopicTree(n.Children, counts, depth+1)
	}
}

func (a *app) cmdDue(args []string) error {
	fs := flag.NewFlagSet("due", flag.ContinueOnError)
	topics := fs.String("topics", "", "comma-separated topic ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	topicIDs := splitList(*topics)

	count, err := a.runner.Queue.DueCount(topicIDs)
	if err != nil {
		return err
	}
	breakdown, err := a.runner.Queue.DueBreakdown(topicIDs)
	if err != nil {
		return err
	}
	fmt.Printf("due now: %d  (learning: %d, review: %d; new available: %d)\n",
		count, breakdown.Learning, breakdown.Review, breakdown.New)
	return nil
}

func (a *app) cmdStats() error {
	today, err := a.runner.TodayStats()
	if err != nil {
		return err
	}
	streak, err := a.runner.Streak()
	if err != nil {
		return err
	}
	retention, err := a.runner.RetentionRate(30)
	if err != nil {
		return err
	}

	fmt.Printf("today: %d reviewed (%d remembered, %d forgot), %d new learned, %s studied\n",
		today.CardsReviewed, today.CardsRemembered, today.CardsForgot,
		today.NewCardsLearned, (time.Duration(today.TimeSpentMs) * time.Millisecond).Round(time.Second))
	fmt.Printf("streak: %d days (longest %d)\n", streak.Current, streak.Longest)
	fmt.Printf("retention (30d): %.0f%%\n", retention*100)
	return nil
}

func outcomeFromAnswer(answer string) (srs.Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "f", "forgot":
		return srs.Forgot, true
	case "r", "remembered":
		return srs.Remembered, true
	default:
		return 0, false
	}
}
