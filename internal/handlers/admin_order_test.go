package handlers

import (
	"testing"

	"storefront/internal/models"
)

func TestAddressFromProfile(t *testing.T) {
	tests := []struct {
		name     string
		customer models.User
		want     models.ShippingAddress
	}{
		{
			name: "three line address",
			customer: models.User{
				FullName: "Demo Customer",
				Address:  "123 Main Street\nCape Town 8001\nSouth Africa",
			},
			want: models.ShippingAddress{
				FullName: "Demo Customer",
				Line1:    "123 Main Street",
				City:     "Cape Town 8001",
				Country:  "South Africa",
			},
		},
		{
			name: "single line keeps only the street",
			customer: models.User{
				FullName: "Demo Customer",
				Address:  "123 Main Street",
			},
			want: models.ShippingAddress{
				FullName: "Demo Customer",
				Line1:    "123 Main Street",
			},
		},
		{
			name:     "empty profile address",
			customer: models.User{FullName: "Demo Customer"},
			want:     models.ShippingAddress{FullName: "Demo Customer"},
		},
		{
			name: "four lines keep the middle line as the second street line",
			customer: models.User{
				FullName: "Demo Customer",
				Address:  "123 Main Street\nApt 4\nCape Town\nSouth Africa",
			},
			want: models.ShippingAddress{
				FullName: "Demo Customer",
				Line1:    "123 Main Street",
				Line2:    "Apt 4",
				City:     "Cape Town",
				Country:  "South Africa",
			},
		},
		{
			name: "extra middle lines join rather than drop",
			customer: models.User{
				FullName: "Demo Customer",
				Address:  "123 Main Street\nBuilding B\nFloor 2\nCape Town\nSouth Africa",
			},
			want: models.ShippingAddress{
				FullName: "Demo Customer",
				Line1:    "123 Main Street",
				Line2:    "Building B, Floor 2",
				City:     "Cape Town",
				Country:  "South Africa",
			},
		},
		{
			name: "blank lines are skipped",
			customer: models.User{
				FullName: "Demo Customer",
				Address:  "123 Main Street\n\n  \nCape Town\nSouth Africa",
			},
			want: models.ShippingAddress{
				FullName: "Demo Customer",
				Line1:    "123 Main Street",
				City:     "Cape Town",
				Country:  "South Africa",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := addressFromProfile(tt.customer)
			if got != tt.want {
				t.Errorf("addressFromProfile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
