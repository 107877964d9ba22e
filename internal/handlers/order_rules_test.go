package handlers

import (
	"testing"
	"time"

	"storefront/internal/models"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{"pending", "paid", "shipped", "cancelled"} {
		if !isValidOrderStatus(status) {
			t.Errorf("expected %q to be a valid status", status)
		}
	}
	for _, status := range []string{"", "refunded", "SHIPPED", "delivered"} {
		if isValidOrderStatus(status) {
			t.Errorf("expected %q to be rejected", status)
		}
	}
}

func TestParseOrderPatchIgnoresUnknownStatus(t *testing.T) {
	patch, err := parseOrderPatch([]byte(`{"status":"delivered","carrier":"DHL"}`))
	if err != nil {
		t.Fatalf("parseOrderPatch returned error: %v", err)
	}
	if patch.Status != "" {
		t.Fatalf("unknown status should be dropped, got %q", patch.Status)
	}
	if patch.Carrier == nil || *patch.Carrier != "DHL" {
		t.Fatal("rest of the patch should still apply")
	}
}

func TestParseOrderPatchShippedAtPresence(t *testing.T) {
	patch, err := parseOrderPatch([]byte(`{"status":"paid"}`))
	if err != nil {
		t.Fatalf("parseOrderPatch returned error: %v", err)
	}
	if patch.ShippedAtSet {
		t.Fatal("absent shippedAt should not be marked as set")
	}

	patch, err = parseOrderPatch([]byte(`{"shippedAt":null}`))
	if err != nil {
		t.Fatalf("parseOrderPatch returned error: %v", err)
	}
	if !patch.ShippedAtSet || patch.ShippedAt != nil {
		t.Fatal("explicit null shippedAt should be set and nil")
	}

	patch, err = parseOrderPatch([]byte(`{"shippedAt":"2024-03-01T10:00:00Z"}`))
	if err != nil {
		t.Fatalf("parseOrderPatch returned error: %v", err)
	}
	if !patch.ShippedAtSet || patch.ShippedAt == nil {
		t.Fatal("explicit shippedAt should parse")
	}
}

func TestBuildOrderUpdateStampsShippedAtOnce(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	update := buildOrderUpdate(orderPatch{Status: models.OrderStatusShipped}, models.Order{}, now)
	stamped, ok := update["shippedAt"].(time.Time)
	if !ok || !stamped.Equal(now) {
		t.Fatalf("first transition to shipped should stamp shippedAt, got %v", update["shippedAt"])
	}

	already := now.Add(-48 * time.Hour)
	update = buildOrderUpdate(
		orderPatch{Status: models.OrderStatusShipped},
		models.Order{ShippedAt: &already},
		now,
	)
	if _, ok := update["shippedAt"]; ok {
		t.Fatal("re-entering shipped must not re-stamp shippedAt")
	}
}

func TestBuildOrderUpdateHonorsExplicitShippedAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	explicit := now.Add(-time.Hour)

	update := buildOrderUpdate(orderPatch{
		Status:       models.OrderStatusShipped,
		ShippedAt:    &explicit,
		ShippedAtSet: true,
	}, models.Order{}, now)

	got, ok := update["shippedAt"].(*time.Time)
	if !ok || got == nil || !got.Equal(explicit) {
		t.Fatalf("explicit shippedAt must win over the auto stamp, got %v", update["shippedAt"])
	}
}

func TestBuildOrderUpdateLeavingShippedKeepsStamp(t *testing.T) {
	now := time.Now()
	already := now.Add(-24 * time.Hour)

	update := buildOrderUpdate(
		orderPatch{Status: models.OrderStatusCancelled},
		models.Order{ShippedAt: &already},
		now,
	)
	if _, ok := update["shippedAt"]; ok {
		t.Fatal("a later status change must never auto-clear shippedAt")
	}
}

func TestBuildOrderUpdateReplacesWholeShippingAddress(t *testing.T) {
	address := models.ShippingAddress{Line1: "1 New Road", City: "Cape Town"}
	update := buildOrderUpdate(orderPatch{ShippingAddress: &address}, models.Order{
		ShippingAddress: models.ShippingAddress{
			FullName: "Old Name",
			Line1:    "9 Old Street",
			Country:  "South Africa",
		},
	}, time.Now())

	got, ok := update["shippingAddress"].(models.ShippingAddress)
	if !ok {
		t.Fatalf("expected shippingAddress replacement, got %T", update["shippingAddress"])
	}
	if got.FullName != "" || got.Country != "" {
		t.Fatal("replacement must not merge prior address fields")
	}
	if got.Line1 != "1 New Road" || got.City != "Cape Town" {
		t.Fatalf("unexpected address: %+v", got)
	}
}

func TestBuildOrderUpdateTrimsTrackingFields(t *testing.T) {
	tracking := "  CBW123456789ZA  "
	carrier := " DHL "
	update := buildOrderUpdate(orderPatch{TrackingNumber: &tracking, Carrier: &carrier}, models.Order{}, time.Now())

	if update["trackingNumber"] != "CBW123456789ZA" || update["carrier"] != "DHL" {
		t.Fatalf("tracking fields should be trimmed, got %v / %v", update["trackingNumber"], update["carrier"])
	}
}

func TestOrderTotal(t *testing.T) {
	items := []models.OrderItem{
		{Slug: "signature-tote", Price: "$1,280", Quantity: 1},
		{Slug: "evening-clutch", Price: "$720", Quantity: 2},
	}
	if got := orderTotal(items); got != 2720 {
		t.Fatalf("orderTotal = %v, want 2720", got)
	}
}

func TestBuildOrderItemsValidation(t *testing.T) {
	if _, err := buildOrderItems(nil); err == nil {
		t.Fatal("empty item list must be rejected")
	}
	if _, err := buildOrderItems([]createOrderItemRequest{{Slug: "x", Quantity: 0}}); err == nil {
		t.Fatal("zero quantity must be rejected")
	}
	items, err := buildOrderItems([]createOrderItemRequest{{Slug: " mini-tote ", Name: " Mini Tote ", Price: " $650 ", Quantity: 2}})
	if err != nil {
		t.Fatalf("buildOrderItems returned error: %v", err)
	}
	if items[0].Slug != "mini-tote" || items[0].Name != "Mini Tote" || items[0].Price != "$650" {
		t.Fatalf("fields should be trimmed, got %+v", items[0])
	}
}
