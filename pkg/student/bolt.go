package student

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"
)

// BoltStore keeps one bbolt entry per student, keyed by the big-endian id.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	ids    *IDSource
}

// OpenBoltStore opens (creating if needed) the database at path.
func OpenBoltStore(path, bucket string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("student: open %s: %w", path, err)
	}
	s := &BoltStore{db: db, bucket: []byte(bucket), ids: NewIDSource(nil)}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		if k, _ := b.Cursor().Last(); k != nil {
			s.ids.Observe(unmarshalID(k))
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("student: init bucket: %w", err)
	}
	return s, nil
}

// List returns students in id order, which is creation order.
func (s *BoltStore) List(ctx context.Context) ([]Student, error) {
	out := []Student{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			var st Student
			if err := json.Unmarshal(v, &st); err != nil {
				return fmt.Errorf("student %d: %w", unmarshalID(k), err)
			}
			out = append(out, st)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) Get(ctx context.Context, id int64) (Student, error) {
	var st Student
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get(marshalID(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &st)
	})
	return st, err
}

func (s *BoltStore) Create(ctx context.Context, st Student) (Student, error) {
	if err := st.Validate(); err != nil {
		return Student{}, err
	}
	st.ID = s.ids.Next()
	err := s.db.Update(func(tx *bolt.Tx) error {
		return s.put(tx, st)
	})
	if err != nil {
		return Student{}, err
	}
	return st, nil
}

func (s *BoltStore) Update(ctx context.Context, id int64, p Patch) (Student, error) {
	var st Student
	err := s.db.Update(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get(marshalID(id))
		if v == nil {
			return ErrNotFound
		}
		var cur Student
		if err := json.Unmarshal(v, &cur); err != nil {
			return err
		}
		st = p.Apply(cur)
		if err := st.Validate(); err != nil {
			return err
		}
		return s.put(tx, st)
	})
	if err != nil {
		return Student{}, err
	}
	return st, nil
}

func (s *BoltStore) Delete(ctx context.Context, id int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		k := marshalID(id)
		if b.Get(k) == nil {
			return ErrNotFound
		}
		return b.Delete(k)
	})
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) put(tx *bolt.Tx, st Student) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return tx.Bucket(s.bucket).Put(marshalID(st.ID), data)
}

func marshalID(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func unmarshalID(key []byte) int64 {
	return int64(binary.BigEndian.Uint64(key))
}

// Driver returns "bolt".
func (s *BoltStore) Driver() string { return "bolt" }
