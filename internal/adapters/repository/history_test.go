package repository_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/okian/spinwheel/internal/adapters/repository"
	"github.com/okian/spinwheel/internal/domain/model"
)

func rec(key string, i int) model.SpinRecord {
	return model.SpinRecord{ID: fmt.Sprintf("%s-%d", key, i), WheelKey: key, Winner: i}
}

func TestHistoryStore_NewestFirst(t *testing.T) {
	h := repository.NewHistoryStore(repository.WithHistoryLimit(3))

	if got := h.Recent("lunch", 10); len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}

	for i := range 5 {
		h.Append(rec("lunch", i))
	}
	h.Append(rec("dinner", 0))

	got := h.Recent("lunch", 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, want := range []string{"lunch-4", "lunch-3", "lunch-2"} {
		if got[i].ID != want {
			t.Errorf("record %d: expected %s, got %s", i, want, got[i].ID)
		}
	}

	if got := h.Recent("lunch", 2); len(got) != 2 || got[0].ID != "lunch-4" {
		t.Errorf("limit 2: unexpected %+v", got)
	}
	if h.Len() != 4 {
		t.Errorf("expected 4 records total, got %d", h.Len())
	}

	h.Forget("lunch")
	if h.Len() != 1 {
		t.Errorf("expected 1 record after forget, got %d", h.Len())
	}
	if got := h.Recent("lunch", 0); len(got) != 0 {
		t.Errorf("expected forgotten history, got %d", len(got))
	}
}

func TestHistoryStore_Concurrent(t *testing.T) {
	h := repository.NewHistoryStore(repository.WithHistoryLimit(50))
	var wg sync.WaitGroup
	for g := range 4 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 100 {
				h.Append(rec(fmt.Sprintf("w%d", g), i))
				_ = h.Recent(fmt.Sprintf("w%d", g), 5)
			}
		}(g)
	}
	wg.Wait()

	if h.Len() != 200 {
		t.Errorf("expected 200 records, got %d", h.Len())
	}
}
