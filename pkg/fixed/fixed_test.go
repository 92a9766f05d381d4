package fixed

import "testing"

func TestS10_5(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1.0, 32},
		{-1.0, -32},
		{0.5, 16},
		{1.0 / 32, 1},
		{0.02, 1}, // 0.64 rounds up
		{0.01, 0}, // 0.32 rounds down
		{-0.02, -1},
		{1023.96875, 32767},
		{1024, -32768}, // wraps
	}

	for _, tc := range tests {
		if got := S10_5(tc.in); got != tc.want {
			t.Errorf("S10_5(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTexCoord(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1.0, 2048}, // 32*32 << 1
		{0.5, 1024},
		{-0.25, -512},
		{16, -32768}, // 16384 << 1 overflows int16
	}

	for _, tc := range tests {
		if got := TexCoord(tc.in); got != tc.want {
			t.Errorf("TexCoord(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestUNorm8(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{1.0, 255},
		{0.5, 128},
		{128.0 / 255, 128},
		{2.0, 254}, // 510 wraps
	}

	for _, tc := range tests {
		if got := UNorm8(tc.in); got != tc.want {
			t.Errorf("UNorm8(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSNorm8(t *testing.T) {
	tests := []struct {
		in   float32
		want int8
	}{
		{0, 0},
		{1.0, 127},
		{-1.0, -128},
		{0.5, 64},
		{-0.5, -64},
	}

	for _, tc := range tests {
		if got := SNorm8(tc.in); got != tc.want {
			t.Errorf("SNorm8(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToFloat(t *testing.T) {
	if got := ToFloat(S10_5(2.5)); got != 2.5 {
		t.Errorf("ToFloat(S10_5(2.5)) = %v, want 2.5", got)
	}
}
