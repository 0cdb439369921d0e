package db

import (
	"context"
	"testing"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"son", "%son%"},
		{"Son", "%son%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		if got := LikePattern(tt.in); got != tt.want {
			t.Errorf("LikePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAccountListLastNameFilter(t *testing.T) {
	gdb := newTestDB(t)
	accounts := NewAccountRepository(NewRepository(gdb))
	ctx := context.Background()

	seedAccount(t, gdb, "jason@test.com", "Jay", "Jason")
	seedAccount(t, gdb, "larson@test.com", "Lara", "Larson")
	seedAccount(t, gdb, "hedge@test.com", "Henry", "Hedge")

	listed, err := accounts.List(ctx, "SON", 20, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("List() = %d accounts, want 2", len(listed))
	}
	// ordered by email
	if listed[0].LastName != "Jason" || listed[1].LastName != "Larson" {
		t.Errorf("List() = [%s %s], want [Jason Larson]", listed[0].LastName, listed[1].LastName)
	}
}

func TestAccountListFilterMatchesWildcardsLiterally(t *testing.T) {
	gdb := newTestDB(t)
	accounts := NewAccountRepository(NewRepository(gdb))
	ctx := context.Background()

	seedAccount(t, gdb, "underscore@test.com", "Una", "Da_Silva")
	seedAccount(t, gdb, "plain@test.com", "Pia", "DaXSilva")

	// "_" must match itself, not any single character
	listed, err := accounts.List(ctx, "a_s", 20, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(listed) != 1 || listed[0].LastName != "Da_Silva" {
		t.Errorf("List() matched %d accounts, want only the literal underscore", len(listed))
	}

	// "%" must not act as a match-anything wildcard
	listed, err = accounts.List(ctx, "%", 20, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("List() with %% filter matched %d accounts, want 0", len(listed))
	}
}

func TestAccountListPagination(t *testing.T) {
	gdb := newTestDB(t)
	accounts := NewAccountRepository(NewRepository(gdb))
	ctx := context.Background()

	seedAccount(t, gdb, "a@test.com", "A", "Archer")
	seedAccount(t, gdb, "b@test.com", "B", "Becker")
	seedAccount(t, gdb, "c@test.com", "C", "Carver")

	page, err := accounts.List(ctx, "", 2, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(page) != 2 || page[0].Email != "a@test.com" || page[1].Email != "b@test.com" {
		t.Errorf("first page = %d accounts starting %s, want [a b]", len(page), page[0].Email)
	}

	page, err = accounts.List(ctx, "", 2, 2)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(page) != 1 || page[0].Email != "c@test.com" {
		t.Errorf("second page = %d accounts, want just c", len(page))
	}
}
