package kvstore

import (
	"context"
	"path/filepath"
	"testing"
)

type record struct {
	Hash   string `json:"hash"`
	Amount string `json:"amount"`
}

func stores(t *testing.T) map[string]Store {
	t.Helper()

	file, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	mem, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	t.Cleanup(func() {
		file.Close()
		mem.Close()
	})

	return map[string]Store{
		"memory":        NewMemory(),
		"sqlite_file":   file,
		"sqlite_memory": mem,
	}
}

func TestStore_RoundTripAndRemove(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("missing key: ok=%v err=%v", ok, err)
			}

			if err := s.Set(ctx, "k", []byte("v1")); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.Set(ctx, "k", []byte("v2")); err != nil {
				t.Fatalf("overwrite: %v", err)
			}

			got, ok, err := s.Get(ctx, "k")
			if err != nil || !ok || string(got) != "v2" {
				t.Fatalf("get = %q, %v, %v", got, ok, err)
			}

			if err := s.Remove(ctx, "k"); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "k"); ok {
				t.Error("expected key to be gone")
			}
			if err := s.Ping(ctx); err != nil {
				t.Errorf("ping: %v", err)
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	in := []record{{Hash: "0x01", Amount: "10"}, {Hash: "0x02", Amount: "2.5"}}
	if err := SetJSON(ctx, s, "log", in); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out []record
	ok, err := GetJSON(ctx, s, "log", &out)
	if err != nil || !ok {
		t.Fatalf("GetJSON: ok=%v err=%v", ok, err)
	}
	if len(out) != 2 || out[1].Amount != "2.5" {
		t.Errorf("unexpected decode %+v", out)
	}

	if err := s.Set(ctx, "broken", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if _, err := GetJSON(ctx, s, "broken", &out); err == nil {
		t.Error("expected decode error for corrupt value")
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	buf := []byte("abc")
	_ = s.Set(ctx, "k", buf)
	buf[0] = 'z'

	got, _, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("store aliased caller buffer: %q", got)
	}
}
