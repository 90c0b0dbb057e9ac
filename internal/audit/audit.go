// Package audit keeps an append-only action log next to the catalog data:
// one event per mutation or query, stored under time-ordered keys in the
// shared badger database. Logging is best-effort and never fails the
// operation that triggered it.
package audit

import (
	"context"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"visearch/internal/catalog"
	"visearch/internal/obs"
)

// Event is one recorded action.
type Event struct {
	ID      string    `msgpack:"id"`
	Time    time.Time `msgpack:"t"`
	Action  string    `msgpack:"act"`
	Subject string    `msgpack:"sub"`
	Detail  string    `msgpack:"det"`
}

// Log appends and reads events in a badger database.
type Log struct {
	db *badger.DB
}

// New wraps an open badger database as an action log.
func New(db *badger.DB) *Log { return &Log{db: db} }

// Record appends an event. Failures are logged and swallowed.
func (l *Log) Record(ctx context.Context, action, subject, detail string) {
	ev := Event{
		ID:      uuid.NewString(),
		Time:    time.Now().UTC(),
		Action:  action,
		Subject: subject,
		Detail:  detail,
	}
	val, err := msgpack.Marshal(ev)
	if err == nil {
		// Nanosecond timestamp in the key keeps iteration time-ordered;
		// the uuid disambiguates same-instant events.
		key := fmt.Sprintf("%s%020d:%s", catalog.LogPrefix, ev.Time.UnixNano(), ev.ID)
		err = l.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(key), val)
		})
	}
	if err != nil {
		obs.Logger.Error("audit write failed", "action", action, "subject", subject, "err", err)
	}
}

// Recent returns up to n events, newest first.
func (l *Log) Recent(_ context.Context, n int) ([]Event, error) {
	var all []Event
	err := l.db.View(func(txn *badger.Txn) error {
		p := []byte(catalog.LogPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var ev Event
			if err := msgpack.Unmarshal(val, &ev); err != nil {
				return err
			}
			all = append(all, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(all) {
		n = len(all)
	}
	out := make([]Event, 0, n)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
