package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// entriesBucket holds the feed entries, keyed by big-endian sequence number
// so a cursor walks them in feed order.
const entriesBucket = "entries"

// Store is the bbolt-backed feed the demo serves pages from. Page tokens
// encode a direction and a sequence position ("f:12" reads forward from
// sequence 12, "b:7" reads backward from sequence 7), so a token handed out
// with one page deterministically names the next one.
type Store struct {
	db *bolt.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(entriesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Len returns the number of stored entries.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(entriesBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

// Append stores entries after the existing ones, one feed row per line.
func (s *Store) Append(lines []string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(entriesBucket))
		for _, line := range lines {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			value, err := json.Marshal(map[string]any{"text": line})
			if err != nil {
				return err
			}
			if err := b.Put(seqKey(seq), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Window serves the initial page from the middle of the feed, with a token
// for each remaining side. Serving the middle makes the document load in both
// directions.
func (s *Store) Window(count int) (items []any, backToken, fwdToken string, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(entriesBucket))
		total := b.Stats().KeyN
		if total == 0 {
			return fmt.Errorf("store is empty")
		}
		skip := (total - count) / 2
		if skip < 0 {
			skip = 0
		}

		c := b.Cursor()
		k, v := c.First()
		for ; k != nil && skip > 0; k, v = c.Next() {
			skip--
		}
		first := uint64(0)
		last := uint64(0)
		for ; k != nil && len(items) < count; k, v = c.Next() {
			seq := binary.BigEndian.Uint64(k)
			if len(items) == 0 {
				first = seq
			}
			last = seq
			item, err := decodeEntry(v)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if len(items) == 0 {
			return fmt.Errorf("store is empty")
		}

		if minK, _ := b.Cursor().First(); binary.BigEndian.Uint64(minK) < first {
			backToken = backwardToken(first - 1)
		}
		if maxK, _ := b.Cursor().Last(); binary.BigEndian.Uint64(maxK) > last {
			fwdToken = forwardToken(last + 1)
		}
		return nil
	})
	return items, backToken, fwdToken, err
}

// Page serves one batch addressed by a previously issued token. A batch near
// the feed's edge may be short; nextToken is empty once the side is
// exhausted. Asking the same token twice yields the same page.
func (s *Store) Page(token string, count int) (items []any, nextToken string, err error) {
	forward, seq, err := parseToken(token)
	if err != nil {
		return nil, "", err
	}
	err = s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(entriesBucket)).Cursor()
		if forward {
			k, v := c.Seek(seqKey(seq))
			last := uint64(0)
			for ; k != nil && len(items) < count; k, v = c.Next() {
				last = binary.BigEndian.Uint64(k)
				item, err := decodeEntry(v)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			if k != nil {
				nextToken = forwardToken(last + 1)
			}
			return nil
		}

		// Backward pages collect descending from the token position, then
		// reverse so the batch reads in feed order.
		k, v := c.Seek(seqKey(seq))
		if k == nil || binary.BigEndian.Uint64(k) > seq {
			k, v = c.Prev()
		}
		first := uint64(0)
		for ; k != nil && len(items) < count; k, v = c.Prev() {
			first = binary.BigEndian.Uint64(k)
			item, err := decodeEntry(v)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		reverse(items)
		if k != nil {
			nextToken = backwardToken(first - 1)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return items, nextToken, nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

func decodeEntry(value []byte) (any, error) {
	var item any
	if err := json.Unmarshal(value, &item); err != nil {
		return nil, fmt.Errorf("corrupt entry: %w", err)
	}
	return item, nil
}

func forwardToken(seq uint64) string  { return "f:" + strconv.FormatUint(seq, 10) }
func backwardToken(seq uint64) string { return "b:" + strconv.FormatUint(seq, 10) }

func parseToken(token string) (forward bool, seq uint64, err error) {
	rest, ok := strings.CutPrefix(token, "f:")
	if !ok {
		if rest, ok = strings.CutPrefix(token, "b:"); !ok {
			return false, 0, fmt.Errorf("malformed page token %q", token)
		}
	} else {
		forward = true
	}
	seq, err = strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return false, 0, fmt.Errorf("malformed page token %q", token)
	}
	return forward, seq, nil
}

func reverse(items []any) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
