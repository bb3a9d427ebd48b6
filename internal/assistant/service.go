package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

// Store is the read-only slice of the repository the assistant needs: a full
// snapshot of the user's data, unfiltered and unpaginated.
type Store interface {
	ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	ListIncomes(ctx context.Context, userID string) ([]core.Income, error)
	ListCategories(ctx context.Context, userID string, typeFilter core.CategoryType) ([]core.Category, error)
	ListSources(ctx context.Context, userID string) ([]core.Source, error)
}

// Service answers one query per call. It keeps no state between calls;
// every query re-fetches and re-aggregates from scratch.
type Service struct {
	store  Store
	userID string
	now    func() time.Time
}

func NewService(store Store, userID string) *Service {
	return &Service{
		store:  store,
		userID: userID,
		now:    time.Now,
	}
}

// Answer loads the user's data, builds a snapshot and walks the three
// response tiers. A storage failure is the only error path; unmatched input
// always produces a response.
func (s *Service) Answer(ctx context.Context, query string) (string, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return "", err
	}

	if intent := Classify(query); intent != IntentNone {
		slog.DebugContext(ctx, "Query matched intent", "intent", string(intent))
		return Respond(intent, snap), nil
	}

	if insights := Accumulate(query, snap); len(insights) > 0 {
		slog.DebugContext(ctx, "Query answered from insights", "count", len(insights))
		return strings.Join(insights, " "), nil
	}

	return SmallTalk(query, snap), nil
}

// loadSnapshot fetches the four collections concurrently and aggregates
// them once.
func (s *Service) loadSnapshot(ctx context.Context) (Snapshot, error) {
	var (
		expenses   []core.Expense
		incomes    []core.Income
		categories []core.Category
		sources    []core.Source
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListIncomes(gctx, s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, s.userID, "")
		return err
	})
	g.Go(func() error {
		var err error
		sources, err = s.store.ListSources(gctx, s.userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load financial data: %w", err)
	}

	return BuildSnapshot(expenses, incomes, categories, sources, s.now()), nil
}
