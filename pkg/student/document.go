package student

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
)

// Document is the on-disk (and in-bucket) JSON shape.
type Document struct {
	Students []Student `json:"students"`
}

// EncodeDocument renders doc with two-space indentation.
func EncodeDocument(doc Document) ([]byte, error) {
	if doc.Students == nil {
		doc.Students = []Student{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeDocument parses a document. Empty input is an empty document.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// blob reads and writes a whole document. read returns (nil, nil) when the
// document does not exist yet.
type blob interface {
	read(ctx context.Context) ([]byte, error)
	write(ctx context.Context, data []byte) error
}

// docStore implements Store over a blob holding the full document. Every
// operation reads the document, and mutations write it back.
type docStore struct {
	mu   sync.Mutex
	b    blob
	ids  *IDSource
	name string
}

func (d *docStore) load(ctx context.Context) (Document, error) {
	data, err := d.b.read(ctx)
	if err != nil {
		return Document{}, err
	}
	if data == nil {
		doc := Document{Students: []Student{}}
		if err := d.save(ctx, doc); err != nil {
			return Document{}, err
		}
		return doc, nil
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return Document{}, err
	}
	for _, s := range doc.Students {
		d.ids.Observe(s.ID)
	}
	return doc, nil
}

func (d *docStore) save(ctx context.Context, doc Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}
	return d.b.write(ctx, data)
}

func (d *docStore) List(ctx context.Context) ([]Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Students == nil {
		return []Student{}, nil
	}
	return doc.Students, nil
}

func (d *docStore) Get(ctx context.Context, id int64) (Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, err := d.load(ctx)
	if err != nil {
		return Student{}, err
	}
	i := indexOf(doc.Students, id)
	if i < 0 {
		return Student{}, ErrNotFound
	}
	return doc.Students[i], nil
}

func (d *docStore) Create(ctx context.Context, s Student) (Student, error) {
	if err := s.Validate(); err != nil {
		return Student{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, err := d.load(ctx)
	if err != nil {
		return Student{}, err
	}
	s.ID = d.ids.Next()
	doc.Students = append(doc.Students, s)
	if err := d.save(ctx, doc); err != nil {
		return Student{}, err
	}
	return s, nil
}

func (d *docStore) Update(ctx context.Context, id int64, p Patch) (Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, err := d.load(ctx)
	if err != nil {
		return Student{}, err
	}
	i := indexOf(doc.Students, id)
	if i < 0 {
		return Student{}, ErrNotFound
	}
	s := p.Apply(doc.Students[i])
	if err := s.Validate(); err != nil {
		return Student{}, err
	}
	doc.Students[i] = s
	if err := d.save(ctx, doc); err != nil {
		return Student{}, err
	}
	return s, nil
}

func (d *docStore) Delete(ctx context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, err := d.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(doc.Students, id)
	if i < 0 {
		return ErrNotFound
	}
	doc.Students = append(doc.Students[:i], doc.Students[i+1:]...)
	return d.save(ctx, doc)
}

func indexOf(list []Student, id int64) int {
	for i, s := range list {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Driver names the backend holding the document.
func (d *docStore) Driver() string { return d.name }
