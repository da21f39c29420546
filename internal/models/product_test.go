package models

import "testing"

func TestInventoryStatus_Severity(t *testing.T) {
	tests := []struct {
		status InventoryStatus
		want   string
	}{
		{InStock, "success"},
		{LowStock, "warning"},
		{OutOfStock, "danger"},
		{"DISCONTINUED", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Severity(); got != tt.want {
				t.Errorf("Severity() = %q, want %q", got, tt.want)
			}
		})
	}
}
