package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	exists, err := m.FieldExists(ctx, TableHeadlines, "h1")
	if err != nil || exists {
		t.Fatalf("FieldExists on empty store = %v, %v", exists, err)
	}

	if err := m.SetField(ctx, TableHeadlines, "h1", "v1"); err != nil {
		t.Fatal(err)
	}
	exists, err = m.FieldExists(ctx, TableHeadlines, "h1")
	if err != nil || !exists {
		t.Fatalf("FieldExists after write = %v, %v", exists, err)
	}

	// Overwrites are silent, last write wins.
	if err := m.SetField(ctx, TableHeadlines, "h1", "v2"); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Field(TableHeadlines, "h1"); v != "v2" {
		t.Errorf("field = %q, want v2", v)
	}

	for _, v := range []string{"a", "b", "a"} {
		if err := m.AppendToList(ctx, "list", v); err != nil {
			t.Fatal(err)
		}
	}
	if got := m.List("list"); !reflect.DeepEqual(got, []string{"a", "b", "a"}) {
		t.Errorf("list = %v, want append order with duplicates", got)
	}

	if err := m.SetScalar(ctx, KeyLastUpdated, "123"); err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Scalar(KeyLastUpdated); !ok || v != "123" {
		t.Errorf("scalar = %q, %v", v, ok)
	}
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore returned error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	exists, err := s.FieldExists(ctx, TableHeadlines, "h1")
	if err != nil || exists {
		t.Fatalf("FieldExists on fresh db = %v, %v", exists, err)
	}

	if err := s.SetField(ctx, TableHeadlines, "h1", "record"); err != nil {
		t.Fatal(err)
	}
	exists, err = s.FieldExists(ctx, TableHeadlines, "h1")
	if err != nil || !exists {
		t.Fatalf("FieldExists after write = %v, %v", exists, err)
	}

	for _, v := range []string{"x", "y", "x"} {
		if err := s.AppendToList(ctx, "keywords:test", v); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.ListValues("keywords:test")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"x", "y", "x"}) {
		t.Errorf("list = %v, want append order with duplicates", got)
	}

	if err := s.SetScalar(ctx, KeyLastUpdated, "456"); err != nil {
		t.Fatal(err)
	}

	if got, err := s.ListValues("missing"); err != nil || got != nil {
		t.Errorf("ListValues(missing) = %v, %v", got, err)
	}
}
