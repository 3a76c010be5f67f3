package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dynafed.dev/signblock/consensus"

	json "github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketBlocks   = []byte("blocks_by_hash")
	bucketIndex    = []byte("block_index_by_hash")
	bucketVerdicts = []byte("verdicts_by_hash")
)

// IndexEntry is the header summary kept next to each raw block so listings
// do not have to re-parse blocks.
type IndexEntry struct {
	Height   uint32
	PrevHash [32]byte
	Dynafed  bool
}

// Verdict is the recorded outcome of verifying one stored block.
type Verdict struct {
	OK        bool   `json:"ok"`
	Code      string `json:"code,omitempty"`
	Index     int    `json:"index"`
	Cause     string `json:"cause,omitempty"`
	CheckedAt int64  `json:"checked_at"`
}

type DB struct {
	path string
	db   *bolt.DB
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("store path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}

	if err := bdb.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketBlocks, bucketIndex, bucketVerdicts} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return &DB{path: path, db: bdb}, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Path() string { return d.path }

// PutBlock parses raw far enough to derive its hash and stores it with its
// index entry. Blocks that do not decode are refused.
//
// The block hash does not commit to the sign block witness, so the same key
// can arrive with different bytes. The new bytes replace the old ones and
// any verdict recorded for the old bytes is dropped in the same transaction.
func (d *DB) PutBlock(raw []byte) ([32]byte, error) {
	blk, err := consensus.ParseBlock(raw)
	if err != nil {
		return [32]byte{}, fmt.Errorf("put block: %w", err)
	}
	hash := consensus.BlockHash(blk.Header)
	entry := encodeIndexEntry(IndexEntry{
		Height:   blk.Header.Height,
		PrevHash: blk.Header.PrevBlockHash,
		Dynafed:  blk.Header.IsDynafed(),
	})
	err = d.db.Update(func(tx *bolt.Tx) error {
		blocks := tx.Bucket(bucketBlocks)
		if prev := blocks.Get(hash[:]); prev != nil {
			if bytes.Equal(prev, raw) {
				return nil
			}
			if err := tx.Bucket(bucketVerdicts).Delete(hash[:]); err != nil {
				return err
			}
		}
		if err := blocks.Put(hash[:], raw); err != nil {
			return err
		}
		return tx.Bucket(bucketIndex).Put(hash[:], entry)
	})
	return hash, err
}

func (d *DB) GetBlock(hash [32]byte) ([]byte, bool, error) {
	var out []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBlocks).Get(hash[:])
		if v == nil {
			return nil
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if out == nil {
		return nil, false, nil
	}
	return out, true, nil
}

func (d *DB) GetIndex(hash [32]byte) (IndexEntry, bool, error) {
	var (
		out IndexEntry
		ok  bool
	)
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketIndex).Get(hash[:])
		if v == nil {
			return nil
		}
		e, err := decodeIndexEntry(v)
		if err != nil {
			return err
		}
		out, ok = e, true
		return nil
	})
	return out, ok, err
}

// BlockHashes lists stored block hashes in key order.
func (d *DB) BlockHashes() ([][32]byte, error) {
	var out [][32]byte
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlocks).ForEach(func(k, _ []byte) error {
			if len(k) != 32 {
				return fmt.Errorf("blocks: bad key length %d", len(k))
			}
			var h [32]byte
			copy(h[:], k)
			out = append(out, h)
			return nil
		})
	})
	return out, err
}

func (d *DB) PutVerdict(hash [32]byte, v Verdict) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketBlocks).Get(hash[:]) == nil {
			return fmt.Errorf("verdict for unknown block %s", consensus.DisplayHash(hash))
		}
		return tx.Bucket(bucketVerdicts).Put(hash[:], val)
	})
}

func (d *DB) GetVerdict(hash [32]byte) (Verdict, bool, error) {
	var (
		out Verdict
		ok  bool
	)
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketVerdicts).Get(hash[:])
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &out); err != nil {
			return fmt.Errorf("decode verdict: %w", err)
		}
		ok = true
		return nil
	})
	return out, ok, err
}

// Layout: height u32le | prev_hash 32 | flags u8 (bit 0: dynafed)
func encodeIndexEntry(e IndexEntry) []byte {
	out := make([]byte, 4+32+1)
	binary.LittleEndian.PutUint32(out[0:4], e.Height)
	copy(out[4:36], e.PrevHash[:])
	if e.Dynafed {
		out[36] = 1
	}
	return out
}

func decodeIndexEntry(b []byte) (IndexEntry, error) {
	if len(b) != 4+32+1 {
		return IndexEntry{}, fmt.Errorf("index: bad length %d", len(b))
	}
	var e IndexEntry
	e.Height = binary.LittleEndian.Uint32(b[0:4])
	copy(e.PrevHash[:], b[4:36])
	e.Dynafed = b[36]&1 != 0
	return e, nil
}
