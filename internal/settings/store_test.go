package settings

import (
	"reflect"
	"testing"
)

func TestMemoryStore_GetDefault(t *testing.T) {
	s := NewMemoryStore()

	if got := s.Get("missing", "fallback"); got != "fallback" {
		t.Errorf("Get(missing) = %v, want fallback", got)
	}
	if got := s.Get("missing", nil); got != nil {
		t.Errorf("Get(missing, nil) = %v, want nil", got)
	}

	s.Set("tab_size", 4)
	if got := s.Get("tab_size", 0); got != 4 {
		t.Errorf("Get(tab_size) = %v, want 4", got)
	}
}

func TestMemoryStore_HasErase(t *testing.T) {
	s := NewMemoryStoreWith(map[string]any{"theme": "dark"})

	if !s.Has("theme") {
		t.Error("Has(theme) = false, want true")
	}
	s.Erase("theme")
	if s.Has("theme") {
		t.Error("Has(theme) after Erase = true, want false")
	}
}

func TestMemoryStore_Keys(t *testing.T) {
	s := NewMemoryStoreWith(map[string]any{"b": 1, "a": 2, "c": 3})

	want := []string{"a", "b", "c"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestMemoryStore_OnChange(t *testing.T) {
	s := NewMemoryStore()

	var calls int
	s.AddOnChange("watch", func() { calls++ })

	s.Set("a", 1)
	if calls != 1 {
		t.Fatalf("calls after Set = %d, want 1", calls)
	}

	// Replacing under the same name keeps a single listener.
	s.AddOnChange("watch", func() { calls += 10 })
	s.Set("a", 2)
	if calls != 11 {
		t.Fatalf("calls after replace = %d, want 11", calls)
	}

	s.ClearOnChange("watch")
	s.Set("a", 3)
	if calls != 11 {
		t.Errorf("calls after ClearOnChange = %d, want 11", calls)
	}

	// Detaching an unknown name is a no-op.
	s.ClearOnChange("nope")
}

func TestMemoryStore_EraseNotifiesOnlyWhenPresent(t *testing.T) {
	s := NewMemoryStoreWith(map[string]any{"a": 1})

	var calls int
	s.AddOnChange("watch", func() { calls++ })

	s.Erase("missing")
	if calls != 0 {
		t.Errorf("calls after erasing absent key = %d, want 0", calls)
	}
	s.Erase("a")
	if calls != 1 {
		t.Errorf("calls after erasing present key = %d, want 1", calls)
	}
}

func TestMemoryStore_ListenerCanDetachItself(t *testing.T) {
	s := NewMemoryStore()

	var calls int
	s.AddOnChange("once", func() {
		calls++
		s.ClearOnChange("once")
	})

	s.Set("a", 1)
	s.Set("a", 2)
	if calls != 1 {
		t.Errorf("self-detaching listener ran %d times, want 1", calls)
	}
}

func TestMemoryStore_ListenerCanWrite(t *testing.T) {
	s := NewMemoryStore()

	s.AddOnChange("mirror", func() {
		s.ClearOnChange("mirror")
		s.Set("mirrored", true)
	})

	s.Set("a", 1)
	if got := s.Get("mirrored", false); got != true {
		t.Errorf("mirrored = %v, want true", got)
	}
}
