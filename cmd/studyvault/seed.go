package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/mkrech/studyvault/internal/deck"
	"github.com/mkrech/studyvault/internal/store"
)

// cmdSeed creates a starter topic tree and a handful of sample cards so a
// fresh vault has something to review.
func (a *app) cmdSeed() error {
	count, err := a.store.CardCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("refusing to seed a non-empty vault")
	}

	now := time.Now()
	newTopic := func(name, parentID, color string) (*deck.Topic, error) {
		return a.store.CreateTopic(store.CreateTopicInput{
			Name:     name,
			ParentID: parentID,
			Color:    color,
		}, now)
	}

	math, err := newTopic("Mathematics", "", "#C75D38")
	if err != nil {
		return err
	}
	linalg, err := newTopic("Linear Algebra", math.ID, "#2D7D5A")
	if err != nil {
		return err
	}
	matrices, err := newTopic("Matrices", linalg.ID, "#2D7D5A")
	if err != nil {
		return err
	}
	determinants, err := newTopic("Determinants", linalg.ID, "#2D7D5A")
	if err != nil {
		return err
	}
	calculus, err := newTopic("Calculus", math.ID, "#B8860B")
	if err != nil {
		return err
	}
	differentiation, err := newTopic("Differentiation", calculus.ID, "#B8860B")
	if err != nil {
		return err
	}
	integration, err := newTopic("Integration", calculus.ID, "#B8860B")
	if err != nil {
		return err
	}

	// Related topics steer the interleaver away from back-to-back drills
	// on material that blurs together.
	determinants.RelatedTopicIDs = []string{linalg.ID}
	if err := a.store.UpdateTopic(determinants); err != nil {
		return err
	}
	differentiation.RelatedTopicIDs = []string{integration.ID}
	if err := a.store.UpdateTopic(differentiation); err != nil {
		return err
	}
	integration.RelatedTopicIDs = []string{differentiation.ID}
	if err := a.store.UpdateTopic(integration); err != nil {
		return err
	}

	type seedCard struct {
		front, back string
		topicIDs    []string
	}
	cards := []seedCard{
		{`What is the derivative of $\sin(x)$?`, `$\cos(x)$`, []string{calculus.ID, differentiation.ID}},
		{`What is the derivative of $e^x$?`, `$e^x$`, []string{calculus.ID, differentiation.ID}},
		{`What is the derivative of $\ln(x)$?`, `$\frac{1}{x}$`, []string{calculus.ID, differentiation.ID}},
		{`What is $\int \sin(x) \, dx$?`, `$-\cos(x) + C$`, []string{calculus.ID, integration.ID}},
		{`What is $\int e^x \, dx$?`, `$e^x + C$`, []string{calculus.ID, integration.ID}},
		{`What is the determinant of $\begin{pmatrix} a & b \\ c & d \end{pmatrix}$?`, `$ad - bc$`, []string{linalg.ID, determinants.ID}},
		{`What is the identity matrix $I_2$?`, `$\begin{pmatrix} 1 & 0 \\ 0 & 1 \end{pmatrix}$`, []string{linalg.ID, matrices.ID}},
		{`What is the transpose of matrix $A$?`, `The matrix with rows and columns interchanged: $(A^T)_{ij} = A_{ji}$`, []string{linalg.ID, matrices.ID}},
	}
	for _, sc := range cards {
		card := deck.NewCard(deck.NewCardInput{
			Type:     deck.CardTypeBasic,
			Front:    sc.front,
			Back:     sc.back,
			TopicIDs: sc.topicIDs,
		}, now)
		if err := a.store.InsertCard(card); err != nil {
			return err
		}
	}

	fmt.Printf("seeded 7 topics and %d cards\n", len(cards))
	return nil
}
