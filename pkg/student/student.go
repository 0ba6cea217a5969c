package student

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
)

// ErrNotFound is returned when no student has the requested id.
var ErrNotFound = errors.New("student: not found")

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("student: store closed")

// Student is one registry record.
type Student struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	DOB     string `json:"dob"`
	Gender  string `json:"gender"`
	State   string `json:"state"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name    *string `json:"name,omitempty"`
	DOB     *string `json:"dob,omitempty"`
	Gender  *string `json:"gender,omitempty"`
	State   *string `json:"state,omitempty"`
	City    *string `json:"city,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
}

// Apply returns s with the patch merged over it. The id never changes.
func (p Patch) Apply(s Student) Student {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Name, p.Name)
	set(&s.DOB, p.DOB)
	set(&s.Gender, p.Gender)
	set(&s.State, p.State)
	set(&s.City, p.City)
	set(&s.Pincode, p.Pincode)
	return s
}

// PatchFrom builds a patch that sets every field of s.
func PatchFrom(s Student) Patch {
	return Patch{
		Name:    &s.Name,
		DOB:     &s.DOB,
		Gender:  &s.Gender,
		State:   &s.State,
		City:    &s.City,
		Pincode: &s.Pincode,
	}
}

// ValidationError reports a field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("student: invalid %s: %s", e.Field, e.Message)
}

// Genders accepted by Validate. An empty gender is allowed.
var Genders = []string{"Male", "Female", "Other"}

// Validate checks the record and normalizes surrounding whitespace.
func (s *Student) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.City = strings.TrimSpace(s.City)
	s.Pincode = strings.TrimSpace(s.Pincode)

	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if len(s.Name) > 100 {
		return &ValidationError{Field: "name", Message: "must be at most 100 characters"}
	}
	if s.DOB != "" {
		dob, err := time.Parse(time.DateOnly, s.DOB)
		if err != nil {
			return &ValidationError{Field: "dob", Message: "must be a YYYY-MM-DD date"}
		}
		if dob.After(time.Now()) {
			return &ValidationError{Field: "dob", Message: "must not be in the future"}
		}
	}
	if s.Gender != "" && !contains(Genders, s.Gender) {
		return &ValidationError{Field: "gender", Message: "must be one of " + strings.Join(Genders, ", ")}
	}
	if s.Pincode != "" {
		if len(s.Pincode) != 6 || strings.IndexFunc(s.Pincode, notDigit) >= 0 {
			return &ValidationError{Field: "pincode", Message: "must be 6 digits"}
		}
	}
	return nil
}

func notDigit(r rune) bool { return !unicode.IsDigit(r) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Store persists students. Implementations must be safe for concurrent use.
type Store interface {
	// List returns every student in insertion order.
	List(ctx context.Context) ([]Student, error)

	// Get returns the student with id or ErrNotFound.
	Get(ctx context.Context, id int64) (Student, error)

	// Create validates s, assigns a fresh id and stores it.
	Create(ctx context.Context, s Student) (Student, error)

	// Update merges p over the stored student and validates the result.
	// Returns ErrNotFound for unknown ids.
	Update(ctx context.Context, id int64, p Patch) (Student, error)

	// Delete removes the student or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Close releases resources held by the store.
	Close() error
}

// IDSource hands out ids from the wall clock in milliseconds. Two ids
// requested within the same millisecond still differ.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDSource returns an IDSource reading now, or time.Now when nil.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns the next id.
func (g *IDSource) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe makes later ids larger than id.
func (g *IDSource) Observe(id int64) {
	g.mu.Lock()
	if id > g.last {
		g.last = id
	}
	g.mu.Unlock()
}
