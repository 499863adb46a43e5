package di

import (
	"sync"
	"sync/atomic"
	"testing"
)

type counter struct{ n int }

func TestRegisterToken_LazySingleton(t *testing.T) {
	c := NewContainer()
	tok := NewToken[*counter]("test.counter")

	var builds atomic.Int32
	RegisterToken(c, tok, func(ServiceRegistry) *counter {
		builds.Add(1)
		return &counter{n: 7}
	})

	if builds.Load() != 0 {
		t.Fatal("factory must not run before first Get")
	}

	var wg sync.WaitGroup
	results := make([]*counter, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = GetToken(c, tok)
		}(i)
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Errorf("expected 1 build, got %d", builds.Load())
	}
	for _, r := range results {
		if r != results[0] {
			t.Fatal("expected the same instance for every Get")
		}
	}
}

func TestRegister_Instance(t *testing.T) {
	c := NewContainer()
	c.Register("config", "value")

	if !c.Has("config") {
		t.Fatal("expected Has to report registered service")
	}
	if got := c.Get("config"); got != "value" {
		t.Errorf("got %v", got)
	}
}

func TestGet_MissingPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown service")
		}
	}()
	NewContainer().Get("missing")
}
