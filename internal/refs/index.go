// Index accelerates short-hash prefix lookups with a bbolt-backed
// cache of every hash discovered under objects/: one cached database
// handle per metadata directory (kept open until CloseIndex), holding a single
// sorted-by-key bucket of full object hashes.
//
// The cache is never authoritative: a hash missing from it only means
// "not yet indexed", and callers fall back to a live directory scan
// whenever it reports zero candidates, self-healing the cache from
// what the scan finds. A directory scan alone is adequate at this
// scale; the index is an accelerator, not a correctness requirement.
package refs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/forge-vcs/forge/internal/repository"
)

var bucketHashes = []byte("hashes")

type hashIndex struct {
	db *bbolt.DB
}

var (
	indexManagerMu sync.Mutex
	indexManager   = map[string]*hashIndex{}
)

// acquireIndex returns the hash index for repo's metadata directory,
// opening (and building) it on first use and reusing the same handle
// for every subsequent call for the life of the process: the whole
// point of the cache is to answer the second and later prefix lookups
// without rebuilding, so callers must not release it after a single
// query. CloseIndex evicts and closes it explicitly, for callers (e.g.
// tests that open many short-lived repositories) that want to bound
// the number of open database handles.
func acquireIndex(repo *repository.Repository) (*hashIndex, error) {
	indexManagerMu.Lock()
	defer indexManagerMu.Unlock()

	key := repo.MetaDir()
	if idx, ok := indexManager[key]; ok {
		return idx, nil
	}

	dbPath := repo.Path("objects.db")
	db, err := bbolt.Open(dbPath, 0666, nil)
	if err != nil {
		return nil, fmt.Errorf("open hash index: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketHashes)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init hash index: %w", err)
	}

	idx := &hashIndex{db: db}
	if err := idx.rebuild(repo); err != nil {
		_ = db.Close()
		return nil, err
	}

	indexManager[key] = idx
	return idx, nil
}

// CloseIndex closes and evicts repo's cached hash index, if one is
// open. Safe to call when none is; later lookups simply reopen (and
// rebuild) it on demand.
func CloseIndex(repo *repository.Repository) error {
	indexManagerMu.Lock()
	defer indexManagerMu.Unlock()

	key := repo.MetaDir()
	idx, ok := indexManager[key]
	if !ok {
		return nil
	}
	delete(indexManager, key)
	return idx.db.Close()
}

// rebuild walks objects/ once and records every full hash it finds.
func (ix *hashIndex) rebuild(repo *repository.Repository) error {
	objectsDir := repo.Path("objects")
	entries, err := os.ReadDir(objectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("scan objects dir: %w", err)
	}

	return ix.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketHashes)
		for _, fanout := range entries {
			if !fanout.IsDir() || len(fanout.Name()) != 2 {
				continue
			}
			sub := filepath.Join(objectsDir, fanout.Name())
			files, err := os.ReadDir(sub)
			if err != nil {
				continue
			}
			for _, f := range files {
				if f.IsDir() || len(f.Name()) != 38 {
					continue
				}
				full := fanout.Name() + f.Name()
				if err := b.Put([]byte(full), []byte{}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// add records a single hash in the index (self-healing after a write
// that happened after the last rebuild).
func (ix *hashIndex) add(hash string) error {
	return ix.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHashes).Put([]byte(hash), []byte{})
	})
}

// matches returns every indexed hash beginning with prefix, relying on
// bbolt's keys-sorted-by-byte-order guarantee to do a single cursor
// walk instead of a full bucket scan.
func (ix *hashIndex) matches(prefix string) ([]string, error) {
	var out []string
	err := ix.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketHashes).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			out = append(out, string(k))
		}
		return nil
	})
	return out, err
}
