package command

import (
	"testing"

	"github.com/lojhan/custom-collections/internal/resp"
	"github.com/lojhan/custom-collections/internal/store"
)

func TestSAddCommand(t *testing.T) {
	s := store.NewStore()
	sadd := SAddCommand(s)

	result := sadd(bulk("set1", "member1", "member2", "member3"))
	if result.Type != resp.Integer || result.Int != 3 {
		t.Errorf("Expected 3 members added, got %d", result.Int)
	}

	result = sadd(bulk("set1", "member1", "member4"))
	if result.Type != resp.Integer || result.Int != 1 {
		t.Errorf("Expected 1 member added, got %d", result.Int)
	}

	if result := SCardCommand(s)(bulk("set1")); result.Int != 4 {
		t.Errorf("Expected cardinality 4, got %+v", result)
	}
}

func TestSRemCommand(t *testing.T) {
	s := store.NewStore()
	SAddCommand(s)(bulk("set1", "member1", "member2"))

	result := SRemCommand(s)(bulk("set1", "member1", "nonexistent"))
	if result.Type != resp.Integer || result.Int != 1 {
		t.Errorf("Expected 1 member removed, got %d", result.Int)
	}

	if result := SIsMemberCommand(s)(bulk("set1", "member1")); result.Int != 0 {
		t.Errorf("Expected member1 to be gone, got %+v", result)
	}
	if result := SIsMemberCommand(s)(bulk("set1", "member2")); result.Int != 1 {
		t.Errorf("Expected member2 to remain, got %+v", result)
	}
}

func TestSMembersSPopCommand(t *testing.T) {
	s := store.NewStore()
	SAddCommand(s)(bulk("set1", "a", "b"))

	result := SMembersCommand(s)(bulk("set1"))
	if result.Type != resp.Array || len(result.Array) != 2 {
		t.Fatalf("Expected 2 members, got %+v", result)
	}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		popped := SPopCommand(s)(bulk("set1"))
		if popped.Type != resp.BulkString || popped.Null {
			t.Fatalf("Expected a member, got %+v", popped)
		}
		seen[popped.Str] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("Expected both members popped, got %v", seen)
	}

	if result := SPopCommand(s)(bulk("set1")); !result.Null {
		t.Errorf("Expected null from empty set, got %+v", result)
	}
}
