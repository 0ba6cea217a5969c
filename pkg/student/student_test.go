package student

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func strp(s string) *string { return &s }

func validStudent(name string) Student {
	return Student{
		Name:    name,
		DOB:     "2004-05-17",
		Gender:  "Female",
		State:   "Kerala",
		City:    "Kochi",
		Pincode: "682001",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Student)
		field string
	}{
		{"valid", func(*Student) {}, ""},
		{"minimal", func(s *Student) { *s = Student{Name: "A"} }, ""},
		{"blank name", func(s *Student) { s.Name = "   " }, "name"},
		{"long name", func(s *Student) { s.Name = strings.Repeat("x", 101) }, "name"},
		{"bad dob", func(s *Student) { s.DOB = "17/05/2004" }, "dob"},
		{"future dob", func(s *Student) { s.DOB = time.Now().AddDate(1, 0, 0).Format(time.DateOnly) }, "dob"},
		{"bad gender", func(s *Student) { s.Gender = "robot" }, "gender"},
		{"short pincode", func(s *Student) { s.Pincode = "6820" }, "pincode"},
		{"alpha pincode", func(s *Student) { s.Pincode = "68200a" }, "pincode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStudent("Asha")
			tt.edit(&s)
			err := s.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestValidateTrims(t *testing.T) {
	s := Student{Name: "  Ravi ", City: " Pune ", Pincode: " 411001 "}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	want := Student{Name: "Ravi", City: "Pune", Pincode: "411001"}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestPatchApply(t *testing.T) {
	s := validStudent("Asha")
	s.ID = 7
	got := Patch{City: strp("Thrissur"), Pincode: strp("680001")}.Apply(s)

	want := s
	want.City = "Thrissur"
	want.Pincode = "680001"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply (-want +got):\n%s", diff)
	}

	full := PatchFrom(validStudent("Other")).Apply(s)
	if full.ID != 7 || full.Name != "Other" {
		t.Errorf("PatchFrom().Apply = %+v", full)
	}
}

func TestIDSourceMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	ids := NewIDSource(func() time.Time { return fixed })

	a, b := ids.Next(), ids.Next()
	if a != fixed.UnixMilli() || b != a+1 {
		t.Errorf("ids = %d, %d", a, b)
	}
	ids.Observe(a + 100)
	if c := ids.Next(); c != a+101 {
		t.Errorf("after Observe, Next() = %d, want %d", c, a+101)
	}
}

// storeFactories builds every driver that can run without network access.
func storeFactories(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"file": func() Store {
			return NewFileStore(filepath.Join(t.TempDir(), "db.json"))
		},
		"bolt": func() Store {
			s, err := OpenBoltStore(filepath.Join(t.TempDir(), "students.db"), "students")
			if err != nil {
				t.Fatal(err)
			}
			return s
		},
		"s3": func() Store {
			return NewS3Store(newFakeS3(), "bucket", "students/db.json")
		},
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			defer s.Close()

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if list == nil || len(list) != 0 {
				t.Fatalf("initial List = %#v, want empty non-nil", list)
			}

			a, err := s.Create(ctx, validStudent("Asha"))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			b, err := s.Create(ctx, validStudent("Bala"))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if a.ID == 0 || b.ID <= a.ID {
				t.Errorf("ids not increasing: %d, %d", a.ID, b.ID)
			}

			got, err := s.Get(ctx, a.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if diff := cmp.Diff(a, got); diff != "" {
				t.Errorf("Get (-want +got):\n%s", diff)
			}

			upd, err := s.Update(ctx, b.ID, Patch{City: strp("Madurai")})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if upd.City != "Madurai" || upd.Name != "Bala" {
				t.Errorf("Update = %+v", upd)
			}

			if err := s.Delete(ctx, a.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			list, err = s.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]Student{upd}, list); diff != "" {
				t.Errorf("List after delete (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			defer s.Close()

			if _, err := s.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get unknown = %v", err)
			}
			if _, err := s.Update(ctx, 1, Patch{}); !errors.Is(err, ErrNotFound) {
				t.Errorf("Update unknown = %v", err)
			}
			if err := s.Delete(ctx, 1); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete unknown = %v", err)
			}

			var ve *ValidationError
			if _, err := s.Create(ctx, Student{}); !errors.As(err, &ve) {
				t.Errorf("Create invalid = %v", err)
			}
			created, err := s.Create(ctx, validStudent("Asha"))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := s.Update(ctx, created.ID, Patch{Name: strp("")}); !errors.As(err, &ve) {
				t.Errorf("Update invalid = %v", err)
			}
			got, _ := s.Get(ctx, created.ID)
			if got.Name != "Asha" {
				t.Errorf("invalid update was stored: %+v", got)
			}
		})
	}
}

func TestFileStoreFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s := NewFileStore(path)
	ctx := context.Background()

	if _, err := s.List(ctx); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created on first read: %v", err)
	}
	if got, want := string(data), "{\n  \"students\": []\n}"; got != want {
		t.Errorf("empty document = %q, want %q", got, want)
	}

	created, err := s.Create(ctx, Student{Name: "Asha"})
	if err != nil {
		t.Fatal(err)
	}

	// A second store over the same file sees the record and keeps ids moving forward.
	again := NewFileStore(path)
	list, err := again.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("reopened List = %+v", list)
	}
	next, err := again.Create(ctx, Student{Name: "Bala"})
	if err != nil {
		t.Fatal(err)
	}
	if next.ID <= created.ID {
		t.Errorf("id %d not after %d", next.ID, created.ID)
	}
}

func TestBoltStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	ctx := context.Background()

	s, err := OpenBoltStore(path, "students")
	if err != nil {
		t.Fatal(err)
	}
	created, err := s.Create(ctx, Student{Name: "Asha"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenBoltStore(path, "students")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestS3StoreWritesDocument(t *testing.T) {
	fake := newFakeS3()
	s := NewS3Store(fake, "bucket", "students/db.json")
	ctx := context.Background()

	if _, err := s.Create(ctx, Student{Name: "Asha"}); err != nil {
		t.Fatal(err)
	}
	doc, err := DecodeDocument(fake.object("bucket", "students/db.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Students) != 1 || doc.Students[0].Name != "Asha" {
		t.Errorf("stored document = %+v", doc)
	}
	if got := s.Location(); got != "s3://bucket/students/db.json" {
		t.Errorf("Location() = %q", got)
	}
}

func TestS3StoreGetError(t *testing.T) {
	fake := newFakeS3()
	fake.getErr = errors.New("access denied")
	s := NewS3Store(fake, "bucket", "k")

	_, err := s.List(context.Background())
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Errorf("List() err = %v", err)
	}
}

func TestMemoryStoreConcurrentCreate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(ctx, Student{Name: "N"}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	list, _ := s.List(ctx)
	seen := map[int64]bool{}
	for _, st := range list {
		if seen[st.ID] {
			t.Fatalf("duplicate id %d", st.ID)
		}
		seen[st.ID] = true
	}
	if len(seen) != 50 {
		t.Errorf("stored %d students, want 50", len(seen))
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore(WithSeed(Student{ID: 5, Name: "Seed"}))
	if s.Len() != 1 {
		t.Fatalf("Len() = %d", s.Len())
	}
	s.Close()
	if _, err := s.List(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("List after Close = %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		opts   Options
		driver string
	}{
		{Options{Driver: "memory"}, "memory"},
		{Options{Driver: "file", Path: filepath.Join(dir, "db.json")}, "file"},
		{Options{Driver: "bolt", BoltPath: filepath.Join(dir, "s.db")}, "bolt"},
		{Options{Driver: "s3", S3Bucket: "b", S3Key: "k", S3Client: newFakeS3()}, "s3"},
	}
	for _, tt := range tests {
		s, err := Open(tt.opts)
		if err != nil {
			t.Fatalf("Open(%s): %v", tt.driver, err)
		}
		if got := DriverOf(s); got != tt.driver {
			t.Errorf("DriverOf = %q, want %q", got, tt.driver)
		}
		s.Close()
	}

	if _, err := Open(Options{Driver: "postgres"}); err == nil {
		t.Error("unknown driver accepted")
	}
	if _, err := Open(Options{Driver: "s3"}); err == nil {
		t.Error("s3 without bucket accepted")
	}
}
