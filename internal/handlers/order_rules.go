package handlers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

/* =========================
   ORDER STATUS MACHINE
========================= */

// isValidOrderStatus reports membership in the status set. The machine is
// permissive: legality of the transition itself is never checked, so the
// admin can correct fulfilment mistakes (including regressions like
// shipped back to pending).
func isValidOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending,
		models.OrderStatusPaid,
		models.OrderStatusShipped,
		models.OrderStatusCancelled:
		return true
	}
	return false
}

/* =========================
   PATCH MODEL
========================= */

type shippingAddressRequest struct {
	FullName string `json:"fullName"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	State    string `json:"state"`
	PostCode string `json:"postCode"`
	Country  string `json:"country"`
}

func (r shippingAddressRequest) toModel() models.ShippingAddress {
	return models.ShippingAddress{
		FullName: r.FullName,
		Line1:    r.Line1,
		Line2:    r.Line2,
		City:     r.City,
		State:    r.State,
		PostCode: r.PostCode,
		Country:  r.Country,
	}
}

type orderPatchRequest struct {
	Status          *string                 `json:"status"`
	ShippingAddress *shippingAddressRequest `json:"shippingAddress"`
	TrackingNumber  *string                 `json:"trackingNumber"`
	Carrier         *string                 `json:"carrier"`
	ShippedAt       *string                 `json:"shippedAt"`
}

// orderPatch is the normalized partial update. ShippedAtSet distinguishes an
// explicit null (clear the stamp) from an absent field.
type orderPatch struct {
	Status          string
	ShippingAddress *models.ShippingAddress
	TrackingNumber  *string
	Carrier         *string
	ShippedAt       *time.Time
	ShippedAtSet    bool
}

// parseOrderPatch decodes the PATCH body. Unknown status values are dropped
// rather than rejected; a malformed shippedAt timestamp is an error.
func parseOrderPatch(body []byte) (orderPatch, error) {
	var req orderPatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return orderPatch{}, fmt.Errorf("invalid body: %w", err)
	}

	// Null and absent both decode to a nil pointer, so shippedAt presence
	// has to come from the raw payload.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return orderPatch{}, fmt.Errorf("invalid body: %w", err)
	}

	patch := orderPatch{
		TrackingNumber: req.TrackingNumber,
		Carrier:        req.Carrier,
	}

	if req.Status != nil && isValidOrderStatus(*req.Status) {
		patch.Status = *req.Status
	}

	if req.ShippingAddress != nil {
		address := req.ShippingAddress.toModel()
		patch.ShippingAddress = &address
	}

	if _, ok := raw["shippedAt"]; ok {
		patch.ShippedAtSet = true
		if req.ShippedAt != nil && strings.TrimSpace(*req.ShippedAt) != "" {
			stamped, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.ShippedAt))
			if err != nil {
				return orderPatch{}, fmt.Errorf("invalid shippedAt: %w", err)
			}
			patch.ShippedAt = &stamped
		}
	}

	return patch, nil
}

// buildOrderUpdate merges the patch against the stored order and returns the
// $set document. The shippedAt stamp is applied after the explicit patch:
// entering shipped for the first time supplies a timestamp only when the
// patch did not carry one, and an existing stamp is never overwritten.
func buildOrderUpdate(patch orderPatch, existing models.Order, now time.Time) bson.M {
	update := bson.M{"updatedAt": now}

	if patch.Status != "" {
		update["status"] = patch.Status
	}
	if patch.ShippingAddress != nil {
		update["shippingAddress"] = *patch.ShippingAddress
	}
	if patch.TrackingNumber != nil {
		update["trackingNumber"] = strings.TrimSpace(*patch.TrackingNumber)
	}
	if patch.Carrier != nil {
		update["carrier"] = strings.TrimSpace(*patch.Carrier)
	}
	if patch.ShippedAtSet {
		update["shippedAt"] = patch.ShippedAt
	}

	if patch.Status == models.OrderStatusShipped && existing.ShippedAt == nil && !patch.ShippedAtSet {
		update["shippedAt"] = now
	}

	return update
}

/* =========================
   ORDER CREATION
========================= */

type createOrderItemRequest struct {
	Slug     string `json:"slug" binding:"required"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity" binding:"required"`
}

// orderTotal prices the snapshot items: sum of parsed price times quantity.
// Malformed prices contribute 0, matching the storefront's pricing rule.
func orderTotal(items []models.OrderItem) float64 {
	lines := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.LineItem{Price: item.Price, Quantity: item.Quantity})
	}
	return pricing.Subtotal(lines)
}

// buildOrderItems validates and snapshots request line items.
func buildOrderItems(reqItems []createOrderItemRequest) ([]models.OrderItem, error) {
	if len(reqItems) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	items := make([]models.OrderItem, 0, len(reqItems))
	for _, item := range reqItems {
		slug := strings.TrimSpace(item.Slug)
		if slug == "" {
			return nil, fmt.Errorf("item slug is required")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be greater than zero")
		}
		items = append(items, models.OrderItem{
			Slug:     slug,
			Name:     strings.TrimSpace(item.Name),
			Price:    strings.TrimSpace(item.Price),
			Quantity: item.Quantity,
		})
	}
	return items, nil
}
