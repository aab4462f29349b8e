package sqlstore

import (
	"context"
	"database/sql"

	"github.com/phrazzld/drill-api/internal/deck"
	"github.com/phrazzld/drill-api/internal/store"
)

// UnitOfWork implements deck.UnitOfWork with store.RunInTransaction.
type UnitOfWork struct {
	db    store.TxBeginner
	store *Store
}

var _ deck.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork binds transactions begun on db to copies of s.
func NewUnitOfWork(db store.TxBeginner, s *Store) *UnitOfWork {
	return &UnitOfWork{db: db, store: s}
}

// Within implements deck.UnitOfWork.Within.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, w deck.Writer) error) error {
	return store.RunInTransaction(ctx, u.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, u.store.WithTx(tx))
	})
}
