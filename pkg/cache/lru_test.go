package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestLRU_GetMissAndHit(t *testing.T) {
	c := NewLRU[int](3)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Add("a", 1)
	value, ok := c.Get("a")
	if !ok || value != 1 {
		t.Fatalf("expected hit with 1, got (%d, %v)", value, ok)
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2)
	c.Add("a", 1)
	c.Add("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected c to be present")
	}
	if c.Len() != 2 {
		t.Fatalf("expected len 2, got %d", c.Len())
	}
}

func TestLRU_AddExistingRefreshes(t *testing.T) {
	c := NewLRU[int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("a", 10)
	c.Add("c", 3)

	if value, ok := c.Get("a"); !ok || value != 10 {
		t.Fatalf("expected refreshed a=10, got (%d, %v)", value, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
}

func TestLRU_DoComputesOnce(t *testing.T) {
	c := NewLRU[[]string](50)
	calls := 0
	compute := func() ([]string, error) {
		calls++
		return []string{"x"}, nil
	}

	_, hit, err := c.Do("Q1|Q2|ent1_opposes_ent2|1994|2022", compute)
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}
	_, hit, err = c.Do("Q1|Q2|ent1_opposes_ent2|1994|2022", compute)
	if err != nil || !hit {
		t.Fatalf("second call: hit=%v err=%v", hit, err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 compute, got %d", calls)
	}

	// A key differing only in year range is a distinct entry.
	_, hit, _ = c.Do("Q1|Q2|ent1_opposes_ent2|1994|2021", compute)
	if hit {
		t.Fatal("different year range must not hit the cache")
	}
	if calls != 2 {
		t.Fatalf("expected 2 computes, got %d", calls)
	}
}

func TestLRU_DoErrorNotCached(t *testing.T) {
	c := NewLRU[int](2)
	calls := 0
	_, _, err := c.Do("k", func() (int, error) {
		calls++
		return 0, errors.New("store down")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	_, hit, err := c.Do("k", func() (int, error) {
		calls++
		return 7, nil
	})
	if err != nil || hit {
		t.Fatalf("expected recompute after error, hit=%v err=%v", hit, err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 computes, got %d", calls)
	}
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c := NewLRU[int](8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", (n+j)%12)
				c.Add(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 8 {
		t.Fatalf("capacity exceeded: %d", c.Len())
	}
}
