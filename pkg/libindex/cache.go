package libindex

import (
	"bytes"
	"encoding/gob"

	bolt "go.etcd.io/bbolt"
)

// cacheBucket and cacheKey name the single bbolt bucket/key pair the cache
// lives under: the spec calls for "a single serialized blob on disk with
// two records" (§6), which this stores as one gob-encoded cacheSnapshot
// value under one key, rather than spreading state across many keys.
var (
	cacheBucket = []byte("sv2ipxact_libindex")
	cacheKey    = []byte("catalog")
)

// cacheSnapshot is the gob-serializable form of a Catalog: unlike Catalog
// itself, every field here is exported so gob can walk it directly.
type cacheSnapshot struct {
	MaxMTime int64
	Entries  []*Entry
	Order    []string
}

func (c *Catalog) snapshot(maxMTime int64) *cacheSnapshot {
	s := &cacheSnapshot{MaxMTime: maxMTime, Order: append([]string(nil), c.order...)}
	for _, k := range c.order {
		s.Entries = append(s.Entries, c.entries[k])
	}
	return s
}

func (s *cacheSnapshot) toCatalog() *Catalog {
	cat := newCatalog()
	cat.order = append([]string(nil), s.Order...)
	for i, k := range s.Order {
		if i < len(s.Entries) {
			cat.entries[k] = s.Entries[i]
		}
	}
	return cat
}

// readCache loads a previously written Catalog and its recorded max mtime.
// ok is false if the cache file, bucket, or key doesn't exist, or the blob
// fails to decode — any of which means the caller should rebuild.
func readCache(path string) (cat *Catalog, maxMTime int64, ok bool) {
	db, err := bolt.Open(path, 0o644, boltReadOnlyOptions())
	if err != nil {
		return nil, 0, false
	}
	defer db.Close()

	var snap cacheSnapshot
	found := false
	_ = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(cacheBucket)
		if b == nil {
			return nil
		}
		blob := b.Get(cacheKey)
		if blob == nil {
			return nil
		}
		dec := gob.NewDecoder(bytes.NewReader(blob))
		if err := dec.Decode(&snap); err != nil {
			return nil
		}
		found = true
		return nil
	})
	if !found {
		return nil, 0, false
	}
	return snap.toCatalog(), snap.MaxMTime, true
}

// writeCache serializes the Catalog and writes it to path, replacing any
// existing bucket contents. bbolt commits the update transactionally (the
// meta-page flip happens after the data pages are fsynced), so a reader
// racing a writer sees either the old snapshot or the new one, never a
// torn blob.
func writeCache(path string, cat *Catalog, maxMTime int64) error {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cat.snapshot(maxMTime)); err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(cacheBucket)
		if err != nil {
			return err
		}
		return b.Put(cacheKey, buf.Bytes())
	})
}

func boltReadOnlyOptions() *bolt.Options {
	return &bolt.Options{ReadOnly: true}
}
