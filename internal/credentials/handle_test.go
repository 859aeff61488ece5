package credentials

import "testing"

func TestGenerateHandle(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		handle, err := GenerateHandle()
		if err != nil {
			t.Fatalf("GenerateHandle() error = %v", err)
		}
		if !IsHandle(handle) {
			t.Errorf("GenerateHandle() = %q, not adjective-noun", handle)
		}
		seen[handle] = true
	}

	if len(seen) < 10 {
		t.Errorf("expected varied handles, got %d distinct in 200", len(seen))
	}
}

func TestIsHandle(t *testing.T) {
	tests := []struct {
		handle string
		want   bool
	}{
		{"swift-python", true},
		{"brave-otter", true},
		{"swift", false},
		{"python-swift", false},
		{"swift-python-extra", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			if got := IsHandle(tt.handle); got != tt.want {
				t.Errorf("IsHandle(%q) = %v, want %v", tt.handle, got, tt.want)
			}
		})
	}
}

func TestRandomElementEmpty(t *testing.T) {
	got, err := randomElement(nil)
	if err != nil || got != "" {
		t.Errorf("randomElement(nil) = %q, %v", got, err)
	}
}
