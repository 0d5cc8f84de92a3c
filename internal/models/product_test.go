package models

import "testing"

func TestProductStockHelpers(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		inStock   bool
		lowStock  bool
	}{
		{"plenty", 100, 10, true, false},
		{"at threshold", 10, 10, true, true},
		{"below threshold", 3, 10, true, true},
		{"out of stock", 0, 10, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{StockQuantity: tt.quantity, LowStockThreshold: tt.threshold}
			if got := p.IsInStock(); got != tt.inStock {
				t.Errorf("IsInStock: got %v, want %v", got, tt.inStock)
			}
			if got := p.IsLowStock(); got != tt.lowStock {
				t.Errorf("IsLowStock: got %v, want %v", got, tt.lowStock)
			}
		})
	}
}

func TestDimensionsScanRoundTrip(t *testing.T) {
	d := Dimensions{Length: 30, Width: 20, Height: 5}
	val, err := d.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var got Dimensions
	if err := got.Scan(val); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got != d {
		t.Errorf("round trip: got %+v, want %+v", got, d)
	}

	// NULL column leaves the zero value untouched.
	var empty Dimensions
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if empty != (Dimensions{}) {
		t.Errorf("Scan(nil): got %+v, want zero value", empty)
	}
}
