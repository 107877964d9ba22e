package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestTrackingEmailMatchesIsCaseInsensitive(t *testing.T) {
	if !trackingEmailMatches("a@x.com", "A@X.com") {
		t.Fatal("case variation of the stored email must match")
	}
	if trackingEmailMatches("a@x.com", "b@x.com") {
		t.Fatal("different email must not match")
	}
	if trackingEmailMatches("", "a@x.com") {
		t.Fatal("blank stored email must never match")
	}
	if trackingEmailMatches("a@x.com", "") {
		t.Fatal("blank supplied email must never match")
	}
}

func TestTrackOrderMalformedIDSharesNotFoundShape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// A malformed id is rejected before any database access, so the handler
	// runs without a connection. The body must be byte-identical to the
	// missing-order and wrong-email responses.
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/track?orderId=not-a-hex-id&email=a@x.com", nil)

	TrackOrder(nil)(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"order not found"}` {
		t.Fatalf("malformed id must return the generic not-found body, got %s", body)
	}
}

func TestTrackOrderMissingParamsIsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/track?orderId=abc", nil)

	TrackOrder(nil)(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing email should be 400, got %d", rec.Code)
	}
}

func TestTrackingResponseNullsEmptyFields(t *testing.T) {
	order := models.Order{
		ID:     primitive.NewObjectID(),
		Status: models.OrderStatusPending,
	}
	resp := trackingResponse(order)
	if resp["trackingNumber"] != nil || resp["carrier"] != nil || resp["shippedAt"] != nil {
		t.Fatalf("empty tracking fields should be null, got %v", resp)
	}

	shipped := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	order.TrackingNumber = "CBW123456789ZA"
	order.Carrier = "DHL"
	order.ShippedAt = &shipped
	order.Status = models.OrderStatusShipped

	resp = trackingResponse(order)
	if resp["trackingNumber"] != "CBW123456789ZA" || resp["carrier"] != "DHL" {
		t.Fatalf("populated tracking fields should pass through, got %v", resp)
	}
	if resp["shippedAt"] != "2024-05-02T09:30:00Z" {
		t.Fatalf("shippedAt should render RFC3339, got %v", resp["shippedAt"])
	}
}
