package draw

import (
	"testing"

	"raffleland/internal/models"
)

func prizes(n int) []models.Prize {
	out := make([]models.Prize, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Prize{AssetID: string(rune('a' + i)), Owner: "custodian.raffleland"})
	}
	return out
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := NewSeededSource([]byte("seed-1"))
	b := NewSeededSource([]byte("seed-1"))
	for i := 0; i < 100; i++ {
		va, vb := a.Intn(7), b.Intn(7)
		if va != vb {
			t.Fatalf("draw %d diverged: %d vs %d", i, va, vb)
		}
		if va < 0 || va >= 7 {
			t.Fatalf("draw %d out of range: %d", i, va)
		}
	}
}

func TestSeededSource_SeedMatters(t *testing.T) {
	a := NewSeededSource([]byte("seed-1"))
	b := NewSeededSource([]byte("seed-2"))
	same := true
	for i := 0; i < 32; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced an identical stream")
	}
}

func TestPair_OnePerPrize(t *testing.T) {
	pool := []string{"alice", "bob", "carol"}
	src := NewSeededSource([]byte("close"))
	out, err := Pair(pool, prizes(2), src, PolicyWithReplacement)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(out) != 2 {
		t.Fatalf("pairings=%d want 2", len(out))
	}
	for i, p := range out {
		if p.Place != i {
			t.Fatalf("pairing %d has place %d", i, p.Place)
		}
		found := false
		for _, a := range pool {
			if a == p.Account {
				found = true
			}
		}
		if !found {
			t.Fatalf("winner %q not in pool", p.Account)
		}
	}
}

func TestPair_WithoutReplacement_NoRepeats(t *testing.T) {
	pool := []string{"alice", "bob", "carol", "dave"}
	src := NewSeededSource([]byte("close"))
	out, err := Pair(pool, prizes(4), src, PolicyWithoutReplacement)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(out) != 4 {
		t.Fatalf("pairings=%d want 4", len(out))
	}
	seen := map[string]bool{}
	for _, p := range out {
		if seen[p.Account] {
			t.Fatalf("account %q won twice without replacement", p.Account)
		}
		seen[p.Account] = true
	}
}

func TestPair_WithoutReplacement_PoolSmallerThanPrizes(t *testing.T) {
	pool := []string{"alice", "bob"}
	src := NewSeededSource([]byte("close"))
	out, err := Pair(pool, prizes(5), src, PolicyWithoutReplacement)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(out) != 2 {
		t.Fatalf("pairings=%d want 2 (pool exhausted)", len(out))
	}
}

func TestPair_WithReplacement_AlwaysFillsPrizes(t *testing.T) {
	pool := []string{"alice"}
	src := NewSeededSource([]byte("close"))
	out, err := Pair(pool, prizes(3), src, PolicyWithReplacement)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(out) != 3 {
		t.Fatalf("pairings=%d want 3", len(out))
	}
	for _, p := range out {
		if p.Account != "alice" {
			t.Fatalf("unexpected winner %q", p.Account)
		}
	}
}

func TestPair_EmptyPool(t *testing.T) {
	src := NewSeededSource([]byte("close"))
	if _, err := Pair(nil, prizes(1), src, PolicyWithReplacement); err == nil {
		t.Fatalf("expected error for empty pool")
	}
}

func TestPair_Deterministic(t *testing.T) {
	pool := []string{"alice", "bob", "carol", "dave", "erin"}
	a, _ := Pair(pool, prizes(3), NewSeededSource([]byte("x")), PolicyWithoutReplacement)
	b, _ := Pair(pool, prizes(3), NewSeededSource([]byte("x")), PolicyWithoutReplacement)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pairing %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if _, err := ParsePolicy("with_replacement"); err != nil {
		t.Fatalf("err=%v", err)
	}
	if _, err := ParsePolicy("coin_flip"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
