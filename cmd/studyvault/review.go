package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/namsral/flag"

	"github.com/mkrech/studyvault/internal/queue"
	"github.com/mkrech/studyvault/internal/session"
	"github.com/mkrech/studyvault/internal/srs"
)

func (a *app) cmdReview(args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	mode := fs.String("mode", "standard", "session mode: standard, micro or topic")
	topics := fs.String("topics", "", "comma-separated topic ids (topic mode)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := queue.NewOptions(queue.Mode(*mode))
	opts.TopicIDs = splitList(*topics)
	opts.MicroLimit = a.cfg.MicroLimit
	opts.NewCardLimit = a.cfg.NewCardLimit

	sess, err := a.runner.Start(opts)
	if err != nil {
		return err
	}
	if len(sess.CardIDs) == 0 {
		// Nothing due is not an error; close the empty session quietly.
		if _, err := a.runner.End(sess.ID); err != nil {
			return err
		}
		fmt.Println("no cards due right now")
		return nil
	}

	total := len(sess.CardIDs)
	fmt.Printf("%d cards queued. (f) forgot, (r) remembered, (q) quit.\n\n", total)
	scanner := bufio.NewScanner(os.Stdin)
	answered := 0

	for {
		card, err := a.runner.CurrentCard(sess.ID)
		if err != nil {
			return err
		}
		if card == nil {
			break
		}

		fmt.Printf("[%d/%d]  Q: %s\n", answered+1, total, card.Front)
		fmt.Print("(enter to flip) ")
		if !scanner.Scan() {
			break
		}
		fmt.Printf("A: %s\n", card.Back)

		preview := a.sched.PreviewIntervals(card.Memory, a.runner.Nower.Now())
		fmt.Printf("(f) forgot: %s    (r) remembered: %s\n",
			srs.FormatInterval(preview.Forgot), srs.FormatInterval(preview.Remembered))

		var outcome srs.Outcome
		quit := false
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				quit = true
				break
			}
			answer := scanner.Text()
			if answer == "q" || answer == "quit" {
				quit = true
				break
			}
			var ok bool
			if outcome, ok = outcomeFromAnswer(answer); ok {
				break
			}
			fmt.Println("answer f, r or q")
		}
		if quit {
			ended, err := a.runner.End(sess.ID)
			if err != nil {
				return err
			}
			printSessionSummary(ended)
			return nil
		}

		result, err := a.runner.Answer(sess.ID, outcome)
		if err != nil {
			if errors.Is(err, session.ErrQueueConsumed) {
				break
			}
			return err
		}
		answered++
		fmt.Printf("next review in %s\n\n", srs.FormatInterval(result.IntervalDays))
		if result.SessionDone {
			break
		}
	}

	final, err := a.store.SessionByID(sess.ID)
	if err != nil {
		return err
	}
	if final.IsActive {
		if final, err = a.runner.End(sess.ID); err != nil {
			return err
		}
	}
	printSessionSummary(final)
	return nil
}

func printSessionSummary(sess *session.Session) {
	stats := session.SessionStats(sess)
	fmt.Printf("\nsession complete: %d reviewed, %d remembered, %d forgot (%.0f%% accuracy)\n",
		stats.CardsReviewed, stats.CardsRemembered, stats.CardsForgot, stats.Accuracy*100)
}
