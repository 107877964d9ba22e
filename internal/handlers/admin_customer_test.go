package handlers

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"storefront/internal/models"
)

func TestCustomerSearchFilterWithoutSearch(t *testing.T) {
	filter := customerSearchFilter("   ")
	if filter["role"] != models.RoleCustomer {
		t.Fatal("filter must restrict to customers")
	}
	if _, ok := filter["$or"]; ok {
		t.Fatal("blank search must not add an $or clause")
	}
}

func TestCustomerSearchFilterEscapesRegexMeta(t *testing.T) {
	filter := customerSearchFilter("a.b+c")
	clauses, ok := filter["$or"].([]bson.M)
	if !ok || len(clauses) != 3 {
		t.Fatalf("expected 3 search clauses, got %v", filter["$or"])
	}
	regex := clauses[0]["username"].(bson.M)
	if regex["$regex"] != `a\.b\+c` {
		t.Fatalf("metacharacters must be escaped, got %q", regex["$regex"])
	}
	if regex["$options"] != "i" {
		t.Fatal("search must be case-insensitive")
	}
}

func TestCSVEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line1\nline2", "\"line1\nline2\""},
	}
	for _, tt := range tests {
		if got := csvEscape(tt.in); got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCustomersCSV(t *testing.T) {
	created := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	csv := customersCSV([]models.User{
		{
			Username:  "customer",
			Email:     "customer@example.com",
			FullName:  "Seed Customer",
			Address:   "123 Main Street\nCape Town 8001",
			CreatedAt: created,
		},
	})

	lines := strings.SplitN(csv, "\n", 2)
	if lines[0] != "username,email,fullName,address,createdAt" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(csv, `"123 Main Street`) {
		t.Fatal("multi-line address must be quoted")
	}
	if !strings.Contains(csv, "2024-01-15T08:00:00Z") {
		t.Fatal("createdAt must render as RFC3339 UTC")
	}
}
