package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketVideos       = []byte("videos")
	bucketVideoIndex   = []byte("video_index")   // sub-bucket per category
	bucketComments     = []byte("comments")      // keyed by comment ID
	bucketCommentIndex = []byte("comment_index") // sub-bucket per video ID
	bucketProfile      = []byte("profile")

	allBuckets = [][]byte{bucketVideos, bucketVideoIndex, bucketComments, bucketCommentIndex, bucketProfile}
)

const keyAvatar = "avatar"

// record wraps a cached item with its position in the partition index.
type record[T any] struct {
	Item      T      `json:"item"`
	Partition string `json:"partition"`
	Index     string `json:"index"`
}

// Store implements domain.Store using BoltDB.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache and gen

	// Hot-path single video reads (promoted on access)
	cache map[string]domain.Video
	// gen is bumped after every video write. A read only promotes into the
	// cache if no write committed since it started.
	gen uint64

	afterRead func(id string) // test hook, runs between the db read and promotion
}

// NewStore opens (or creates) the cache database for a server.
func NewStore(baseCacheDir, serverURL string) (*Store, error) {
	if baseCacheDir == "" {
		return nil, errors.New("cache directory is required")
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "reel.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string]domain.Video)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Store) Close() error {
	return s.db.Close()
}

// === Generic helpers ===

// tsPrefix sorts newest first.
func tsPrefix(ts int64) string {
	if ts < 0 {
		ts = 0
	}
	return fmt.Sprintf("%020d:", math.MaxInt64-ts)
}

// indexKey orders a partition by timestamp; ties keep insertion order.
func indexKey(ts int64, seq uint64) string {
	return fmt.Sprintf("%s%020d", tsPrefix(ts), seq)
}

// put inserts or replaces an item and moves its index entry when the
// partition or timestamp changed.
func put[T any](tx *bolt.Tx, items, index []byte, id, partition string, ts int64, item T) error {
	if id == "" {
		return errors.New("record has no id")
	}
	if partition == "" {
		return fmt.Errorf("record %s has no partition", id)
	}

	b := tx.Bucket(items)
	idx := tx.Bucket(index)

	var prev record[T]
	havePrev := false
	if data := b.Get([]byte(id)); data != nil {
		havePrev = json.Unmarshal(data, &prev) == nil
	}

	rec := record[T]{Item: item, Partition: partition}
	if havePrev && prev.Partition == partition && strings.HasPrefix(prev.Index, tsPrefix(ts)) {
		// Same slot: in-place updates keep their position
		rec.Index = prev.Index
	} else {
		if havePrev {
			if old := idx.Bucket([]byte(prev.Partition)); old != nil {
				if err := old.Delete([]byte(prev.Index)); err != nil {
					return err
				}
			}
		}
		part, err := idx.CreateBucketIfNotExists([]byte(partition))
		if err != nil {
			return err
		}
		seq, err := part.NextSequence()
		if err != nil {
			return err
		}
		rec.Index = indexKey(ts, seq)
		if err := part.Put([]byte(rec.Index), []byte(id)); err != nil {
			return err
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.Put([]byte(id), data)
}

func list[T any](tx *bolt.Tx, items, index []byte, partition string, limit, offset int) ([]T, error) {
	part := tx.Bucket(index).Bucket([]byte(partition))
	if part == nil {
		return nil, nil
	}
	b := tx.Bucket(items)

	var out []T
	skipped := 0
	c := part.Cursor()
	for k, id := c.First(); k != nil; k, id = c.Next() {
		if skipped < offset {
			skipped++
			continue
		}
		data := b.Get(id)
		if data == nil {
			continue
		}
		var rec record[T]
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		out = append(out, rec.Item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// deletePartition drops every item indexed under partition and returns their IDs.
func deletePartition(tx *bolt.Tx, items, index []byte, partition string) ([]string, error) {
	idx := tx.Bucket(index)
	part := idx.Bucket([]byte(partition))
	if part == nil {
		return nil, nil
	}
	b := tx.Bucket(items)

	var ids []string
	err := part.ForEach(func(_, id []byte) error {
		ids = append(ids, string(id))
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := b.Delete([]byte(id)); err != nil {
			return nil, err
		}
	}
	return ids, idx.DeleteBucket([]byte(partition))
}

// remove deletes one item and its index entry.
func remove[T any](tx *bolt.Tx, items, index []byte, id string) error {
	b := tx.Bucket(items)
	data := b.Get([]byte(id))
	if data == nil {
		return nil
	}
	var rec record[T]
	if err := json.Unmarshal(data, &rec); err == nil {
		if part := tx.Bucket(index).Bucket([]byte(rec.Partition)); part != nil {
			if err := part.Delete([]byte(rec.Index)); err != nil {
				return err
			}
		}
	}
	return b.Delete([]byte(id))
}

func (s *Store) forget(ids ...string) {
	s.mu.Lock()
	s.gen++
	for _, id := range ids {
		delete(s.cache, id)
	}
	s.mu.Unlock()
}

// === Videos ===

func (s *Store) GetVideo(id string) (domain.Video, bool) {
	s.mu.RLock()
	if v, ok := s.cache[id]; ok {
		s.mu.RUnlock()
		return v, true
	}
	gen := s.gen
	s.mu.RUnlock()

	var rec record[domain.Video]
	found := false
	s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketVideos).Get([]byte(id)); data != nil {
			found = json.Unmarshal(data, &rec) == nil
		}
		return nil
	})
	if !found {
		return domain.Video{}, false
	}
	if s.afterRead != nil {
		s.afterRead(id)
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cache[id] = rec.Item
	}
	s.mu.Unlock()
	return rec.Item, true
}

func (s *Store) VideosByCategory(category domain.Category, limit, offset int) ([]domain.Video, error) {
	var videos []domain.Video
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		videos, err = list[domain.Video](tx, bucketVideos, bucketVideoIndex, string(category), limit, offset)
		return err
	})
	return videos, err
}

func (s *Store) SaveVideo(v domain.Video) error {
	return s.SaveVideos([]domain.Video{v})
}

func (s *Store) SaveVideos(vs []domain.Video) error {
	if len(vs) == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, v := range vs {
			if err := put(tx, bucketVideos, bucketVideoIndex, v.ID, string(v.Category), v.Timestamp, v); err != nil {
				return err
			}
		}
		return nil
	})
	s.forget(videoIDs(vs)...)
	return err
}

func (s *Store) UpdateVideo(v domain.Video) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketVideos).Get([]byte(v.ID)) == nil {
			return nil
		}
		return put(tx, bucketVideos, bucketVideoIndex, v.ID, string(v.Category), v.Timestamp, v)
	})
	s.forget(v.ID)
	return err
}

func (s *Store) DeleteVideosByCategory(category domain.Category) error {
	var ids []string
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		ids, err = deletePartition(tx, bucketVideos, bucketVideoIndex, string(category))
		return err
	})
	s.forget(ids...)
	return err
}

// PruneVideos evicts videos cached before the given time.
func (s *Store) PruneVideos(before time.Time) (int, error) {
	cutoff := before.UnixMilli()
	var stale []record[domain.Video]

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVideos)
		err := b.ForEach(func(_, data []byte) error {
			var rec record[domain.Video]
			if err := json.Unmarshal(data, &rec); err != nil {
				return err
			}
			if rec.Item.Timestamp < cutoff {
				stale = append(stale, rec)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, rec := range stale {
			if err := remove[domain.Video](tx, bucketVideos, bucketVideoIndex, rec.Item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	ids := make([]string, len(stale))
	for i, rec := range stale {
		ids[i] = rec.Item.ID
	}
	s.forget(ids...)
	return len(stale), nil
}

func videoIDs(vs []domain.Video) []string {
	ids := make([]string, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	return ids
}

// === Comments ===

func (s *Store) CommentsByVideo(videoID string, limit, offset int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		comments, err = list[domain.Comment](tx, bucketComments, bucketCommentIndex, videoID, limit, offset)
		return err
	})
	return comments, err
}

func (s *Store) SaveComment(c domain.Comment) error {
	return s.SaveComments([]domain.Comment{c})
}

func (s *Store) SaveComments(cs []domain.Comment) error {
	if len(cs) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, c := range cs {
			if err := put(tx, bucketComments, bucketCommentIndex, c.ID, c.VideoID, c.Timestamp, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteComment(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return remove[domain.Comment](tx, bucketComments, bucketCommentIndex, id)
	})
}

func (s *Store) DeleteCommentsByVideo(videoID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := deletePartition(tx, bucketComments, bucketCommentIndex, videoID)
		return err
	})
}

// === Profile ===

func (s *Store) GetAvatar() (string, bool) {
	var uri string
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketProfile).Get([]byte(keyAvatar)); v != nil {
			uri = string(v)
		}
		return nil
	})
	return uri, uri != ""
}

func (s *Store) SaveAvatar(uri string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProfile).Put([]byte(keyAvatar), []byte(uri))
	})
}

func (s *Store) ClearAvatar() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProfile).Delete([]byte(keyAvatar))
	})
}

// === Invalidation ===

// InvalidateAll wipes every bucket.
func (s *Store) InvalidateAll() error {
	defer func() {
		s.mu.Lock()
		s.gen++
		s.cache = make(map[string]domain.Video)
		s.mu.Unlock()
	}()

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
