package cart

import (
	"errors"
	"testing"
)

type memoryStorage struct {
	data map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: map[string][]byte{}}
}

func (m *memoryStorage) Load(key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memoryStorage) Save(key string, data []byte) error {
	m.data[key] = data
	return nil
}

type failingStorage struct{}

func (failingStorage) Load(string) ([]byte, error) { return nil, errors.New("storage down") }
func (failingStorage) Save(string, []byte) error { return errors.New("storage down") }

func TestAddSameSlugIncrementsQuantity(t *testing.T) {
	s := New(newMemoryStorage())
	s.Add(Item{Slug: "signature-tote", Name: "The Signature Tote", Price: "$1,280"})
	s.Add(Item{Slug: "signature-tote", Name: "The Signature Tote", Price: "$1,280"})

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s := New(newMemoryStorage())
	s.Add(Item{Slug: "b", Price: "$1"})
	s.Add(Item{Slug: "a", Price: "$1"})
	s.Add(Item{Slug: "b", Price: "$1"})

	items := s.Items()
	if items[0].Slug != "b" || items[1].Slug != "a" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestSetQuantityZeroRemovesItem(t *testing.T) {
	s := New(newMemoryStorage())
	s.Add(Item{Slug: "evening-clutch", Price: "$720"})
	s.SetQuantity("evening-clutch", 0)

	if len(s.Items()) != 0 {
		t.Fatal("expected item to be removed when quantity set to 0")
	}
}

func TestSubtotal(t *testing.T) {
	s := New(newMemoryStorage())
	s.Add(Item{Slug: "x", Price: "$100"})
	s.SetQuantity("x", 2)
	s.Add(Item{Slug: "y", Price: "$50"})

	if got := s.Subtotal(); got != 250 {
		t.Fatalf("Subtotal = %v, want 250", got)
	}
}

func TestRemoveAbsentSlugIsNoop(t *testing.T) {
	s := New(newMemoryStorage())
	s.Add(Item{Slug: "x", Price: "$10"})
	s.Remove("missing")

	if len(s.Items()) != 1 {
		t.Fatal("remove of absent slug should not change the cart")
	}
}

func TestCartPersistsAcrossSessions(t *testing.T) {
	storage := newMemoryStorage()

	first := New(storage)
	first.Add(Item{Slug: "mini-tote", Price: "$650"})
	first.SetQuantity("mini-tote", 3)

	second := New(storage)
	items := second.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected persisted cart to reload, got %+v", items)
	}
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	s := New(failingStorage{})
	s.Add(Item{Slug: "x", Price: "$10"})
	s.Add(Item{Slug: "x", Price: "$10"})

	if s.Count() != 2 {
		t.Fatalf("cart should keep working in memory, got count %d", s.Count())
	}
}

func TestCorruptedPayloadDegradesToEmptyCart(t *testing.T) {
	storage := newMemoryStorage()
	storage.data[StorageKey] = []byte("{not json")

	s := New(storage)
	if len(s.Items()) != 0 {
		t.Fatal("corrupted payload should load as an empty cart")
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	storage := NewFileStorage(t.TempDir())

	s := New(storage)
	s.Add(Item{Slug: "woven-tote", Price: "$920"})

	reloaded := New(storage)
	if reloaded.Count() != 1 {
		t.Fatalf("expected reloaded cart count 1, got %d", reloaded.Count())
	}
}
