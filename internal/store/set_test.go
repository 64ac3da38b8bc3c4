package store

import (
	"sort"
	"testing"
)

func TestHashSetAdd(t *testing.T) {
	set := NewHashSet[string]()

	if added := set.Add("member1", "member2", "member3"); added != 3 {
		t.Errorf("Expected 3 members added, got %d", added)
	}
	if added := set.Add("member1"); added != 0 {
		t.Errorf("Expected 0 members added (already exists), got %d", added)
	}
	if added := set.Add("member2", "member4", "member5", "member4"); added != 2 {
		t.Errorf("Expected 2 new members added, got %d", added)
	}

	if set.Len() != 5 {
		t.Errorf("Expected cardinality 5, got %d", set.Len())
	}
}

func TestHashSetRemove(t *testing.T) {
	set := NewHashSet[string]()
	set.Add("member1", "member2", "member3")

	if removed := set.Remove("member1"); removed != 1 {
		t.Errorf("Expected 1 member removed, got %d", removed)
	}
	if removed := set.Remove("nonexistent"); removed != 0 {
		t.Errorf("Expected 0 members removed, got %d", removed)
	}
	if removed := set.Remove("member2", "member3", "nonexistent"); removed != 2 {
		t.Errorf("Expected 2 members removed, got %d", removed)
	}

	if set.Len() != 0 {
		t.Errorf("Expected cardinality 0, got %d", set.Len())
	}
}

func TestHashSetContains(t *testing.T) {
	set := NewHashSet[int]()
	set.Add(1, 2)

	if !set.Contains(1) {
		t.Error("Expected 1 to be in set")
	}
	if set.Contains(3) {
		t.Error("Expected 3 to not be in set")
	}

	set.Remove(1)
	if set.Contains(1) {
		t.Error("Expected 1 to not be in set after removal")
	}
}

func TestHashSetMembers(t *testing.T) {
	set := NewHashSet[string]()

	if members := set.Members(); len(members) != 0 {
		t.Errorf("Expected 0 members, got %d", len(members))
	}

	set.Add("a", "b", "c")
	members := set.Members()
	sort.Strings(members)

	want := []string{"a", "b", "c"}
	for i := range want {
		if members[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, members)
		}
	}

	count := 0
	for range set.All() {
		count++
	}
	if count != 3 {
		t.Errorf("Expected All to yield 3 members, got %d", count)
	}
}

func TestHashSetPop(t *testing.T) {
	set := NewHashSet[string]()
	set.Add("x", "y")

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		member, ok := set.Pop()
		if !ok {
			t.Fatal("Expected Pop to return a member")
		}
		if seen[member] {
			t.Errorf("Member %s popped twice", member)
		}
		seen[member] = true
	}

	if _, ok := set.Pop(); ok {
		t.Error("Expected Pop on an empty set to report false")
	}
	if set.Len() != 0 {
		t.Errorf("Expected empty set, got %d", set.Len())
	}
}
