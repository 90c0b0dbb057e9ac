// Package badgerstore implements the catalog store on BadgerDB v4.
//
// Layout: product and image records live under the prefixes defined in the
// catalog package, encoded with msgpack. Monotonic IDs come from badger
// sequences, which never hand out a value twice, so IDs stay unique even
// across deletes and restarts.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"visearch/internal/catalog"
	"visearch/internal/domain"
)

const seqBandwidth = 64

// Store is a durable domain.Store backed by a badger database. The database
// handle is shared with other components (the audit log); Close releases the
// ID sequences but not the handle.
type Store struct {
	db       *badger.DB
	products *badger.Sequence
	images   *badger.Sequence
}

var _ domain.Store = (*Store)(nil)

// OpenDB opens a badger database at dir, or an in-memory one for tests,
// with badger's info/debug output silenced.
func OpenDB(dir string, inMemory bool) (*badger.DB, error) {
	if !inMemory && dir == "" {
		return nil, errors.New("badgerstore: dir is required for on-disk mode")
	}
	opts := badger.DefaultOptions(dir).WithLogger(quietLogger{})
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(quietLogger{})
	}
	return badger.Open(opts)
}

// New wraps an open badger database as a catalog store.
func New(db *badger.DB) (*Store, error) {
	products, err := db.GetSequence([]byte("seq:product"), seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("product sequence: %w", err)
	}
	images, err := db.GetSequence([]byte("seq:image"), seqBandwidth)
	if err != nil {
		products.Release()
		return nil, fmt.Errorf("image sequence: %w", err)
	}
	return &Store{db: db, products: products, images: images}, nil
}

// Init verifies the keyspace is usable. Opening the database already
// creates it, so a second call changes nothing observable.
func (s *Store) Init(_ context.Context) error {
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

func (s *Store) CreateProduct(_ context.Context, name string, price float64, amount int64, images []domain.NewImage) (uint64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("name must not be empty: %w", domain.ErrValidation)
	}
	if price < 0 {
		return 0, fmt.Errorf("price %v must not be negative: %w", price, domain.ErrValidation)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount %d must not be negative: %w", amount, domain.ErrValidation)
	}

	pid, err := s.nextID(s.products)
	if err != nil {
		return 0, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		val, err := catalog.EncodeProduct(catalog.ProductRecord{Name: name, Price: price, Amount: amount})
		if err != nil {
			return err
		}
		if err := txn.Set(catalog.ProductKey(pid), val); err != nil {
			return err
		}
		return s.writeImages(txn, pid, images)
	})
	if err != nil {
		return 0, err
	}
	return pid, nil
}

func (s *Store) AddImages(_ context.Context, productID uint64, images []domain.NewImage) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(catalog.ProductKey(productID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
			}
			return err
		}
		return s.writeImages(txn, productID, images)
	})
}

// writeImages allocates IDs and stores the records inside txn. The whole
// transaction commits or none of it does.
func (s *Store) writeImages(txn *badger.Txn, productID uint64, images []domain.NewImage) error {
	for _, img := range images {
		iid, err := s.nextID(s.images)
		if err != nil {
			return err
		}
		val, err := catalog.EncodeImage(catalog.ImageRecord{
			ProductID: productID,
			Path:      img.Path,
			Embedding: img.Embedding,
		})
		if err != nil {
			return err
		}
		if err := txn.Set(catalog.ImageKey(iid), val); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) AllEntries(_ context.Context) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		products := make(map[uint64]catalog.ProductRecord)
		return iteratePrefix(txn, catalog.ImagePrefix, func(key, val []byte) error {
			iid, err := catalog.ParseID(key, catalog.ImagePrefix)
			if err != nil {
				return err
			}
			rec, err := catalog.DecodeImage(val)
			if err != nil {
				return fmt.Errorf("image %d: %w", iid, err)
			}
			prod, ok := products[rec.ProductID]
			if !ok {
				item, err := txn.Get(catalog.ProductKey(rec.ProductID))
				if err != nil {
					return fmt.Errorf("image %d references product %d: %w", iid, rec.ProductID, err)
				}
				pv, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				if prod, err = catalog.DecodeProduct(pv); err != nil {
					return fmt.Errorf("product %d: %w", rec.ProductID, err)
				}
				products[rec.ProductID] = prod
			}
			entries = append(entries, domain.Entry{
				ProductID: rec.ProductID,
				Name:      prod.Name,
				Price:     prod.Price,
				Amount:    prod.Amount,
				ImageID:   iid,
				ImagePath: rec.Path,
				Embedding: rec.Embedding,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.ProductSummary, error) {
	var out []domain.ProductSummary
	err := s.db.View(func(txn *badger.Txn) error {
		byID := make(map[uint64]int)
		err := iteratePrefix(txn, catalog.ProductPrefix, func(key, val []byte) error {
			id, err := catalog.ParseID(key, catalog.ProductPrefix)
			if err != nil {
				return err
			}
			rec, err := catalog.DecodeProduct(val)
			if err != nil {
				return fmt.Errorf("product %d: %w", id, err)
			}
			byID[id] = len(out)
			out = append(out, domain.ProductSummary{
				Product: domain.Product{ID: id, Name: rec.Name, Price: rec.Price, Amount: rec.Amount},
			})
			return nil
		})
		if err != nil {
			return err
		}
		return iteratePrefix(txn, catalog.ImagePrefix, func(key, val []byte) error {
			rec, err := catalog.DecodeImage(val)
			if err != nil {
				return err
			}
			if i, ok := byID[rec.ProductID]; ok {
				out[i].ImageCount++
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateProduct(_ context.Context, id uint64, price *float64, amount *int64) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("price %v must not be negative: %w", *price, domain.ErrValidation)
	}
	if amount != nil && *amount < 0 {
		return fmt.Errorf("amount %d must not be negative: %w", *amount, domain.ErrValidation)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(catalog.ProductKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
			}
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		rec, err := catalog.DecodeProduct(val)
		if err != nil {
			return err
		}
		if price != nil {
			rec.Price = *price
		}
		if amount != nil {
			rec.Amount = *amount
		}
		enc, err := catalog.EncodeProduct(rec)
		if err != nil {
			return err
		}
		return txn.Set(catalog.ProductKey(id), enc)
	})
}

// DeleteProduct removes the product and cascades to its image records in a
// single transaction.
func (s *Store) DeleteProduct(_ context.Context, id uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(catalog.ProductKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
			}
			return err
		}
		var doomed [][]byte
		err := iteratePrefix(txn, catalog.ImagePrefix, func(key, val []byte) error {
			rec, err := catalog.DecodeImage(val)
			if err != nil {
				return err
			}
			if rec.ProductID == id {
				k := make([]byte, len(key))
				copy(k, key)
				doomed = append(doomed, k)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range doomed {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return txn.Delete(catalog.ProductKey(id))
	})
}

// Close releases the ID sequences. The shared database handle is closed by
// its owner.
func (s *Store) Close() error {
	err := s.products.Release()
	if err2 := s.images.Release(); err == nil {
		err = err2
	}
	return err
}

// nextID returns sequence values shifted by one so IDs start at 1.
func (s *Store) nextID(seq *badger.Sequence) (uint64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

func iteratePrefix(txn *badger.Txn, prefix string, fn func(key, val []byte) error) error {
	p := []byte(prefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = p
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	return nil
}

// quietLogger keeps badger's chatty info/debug output off the console.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (quietLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (quietLogger) Infof(string, ...interface{})        {}
func (quietLogger) Debugf(string, ...interface{})       {}
