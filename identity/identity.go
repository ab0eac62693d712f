// Package identity maps a typed player name to a stats.nba.com person id,
// trying an explicit id, then the local index file, then a remote search.
package identity

import (
	"context"
	"fmt"
	"strings"

	"nbacorpus/logger"
	"nbacorpus/metrics"
	"nbacorpus/nba"
	"nbacorpus/roster"
)

const (
	SourceExplicit = "explicit"
	SourceLocal    = "local"
	SourceRemote   = "remote"
	sourceNotFound = "not_found"
)

// Searcher is the remote tier.
type Searcher interface {
	SearchPlayers(ctx context.Context, name string) ([]nba.Player, error)
}

type Query struct {
	Name string
	// ID, when positive, is trusted as-is.
	ID int
}

type Resolver struct {
	index   Index
	search  Searcher
	log     logger.Logger
	metrics *metrics.Manager
}

func NewResolver(index Index, search Searcher, log logger.Logger, m *metrics.Manager) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{index: index, search: search, log: log, metrics: m}
}

func (r *Resolver) Resolve(ctx context.Context, q Query) (roster.Entity, error) {
	if q.ID > 0 {
		r.found(ctx, SourceExplicit, q.Name, q.ID)
		return roster.Entity{ID: q.ID, DisplayName: q.Name}, nil
	}
	name := strings.TrimSpace(q.Name)
	if name == "" {
		return roster.Entity{}, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	if r.index != nil {
		e, ok, err := r.index.Lookup(ctx, name)
		switch {
		case err != nil:
			r.log.Warn(ctx, "local player index unreadable, falling back to remote search", logger.Error(err))
		case ok:
			r.found(ctx, SourceLocal, e.DisplayName, e.ID)
			return e, nil
		}
	}

	if r.search != nil {
		hits, err := r.search.SearchPlayers(ctx, name)
		if err != nil {
			r.log.Warn(ctx, "remote player search failed", logger.String("name", name), logger.Error(err))
		} else if len(hits) > 0 {
			r.found(ctx, SourceRemote, hits[0].Name, hits[0].ID)
			return roster.Entity{ID: hits[0].ID, DisplayName: hits[0].Name}, nil
		}
	}

	r.metrics.IdentityResolved(sourceNotFound)
	r.log.Info(ctx, "player not found", logger.String("name", name))
	return roster.Entity{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (r *Resolver) found(ctx context.Context, source, name string, id int) {
	r.metrics.IdentityResolved(source)
	r.log.Info(ctx, "resolved player",
		logger.String("name", name),
		logger.Int("player_id", id),
		logger.String("source", source),
	)
}
