package netaddr

import (
	"errors"
	"net/netip"
	"slices"
	"testing"
)

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		input    string
		wantBits int
		wantErr  bool
	}{
		{"192.168.1.0/24", 24, false},
		{"10.0.0.0/8", 8, false},
		{"0.0.0.0/0", 0, false},
		{"10.1.2.3/32", 32, false},
		{"192.168.99.128/25", 25, false},
		{"192.168.1.5/24", 0, true},
		{"192.168.1.0/33", 0, true},
		{"192.168.1.0/-1", 0, true},
		{"192.168.1.0", 0, true},
		{"192.168.1.0/", 0, true},
		{"192.168.1.0/24/1", 0, true},
		{"300.168.1.0/24", 0, true},
		{"/24", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNetwork) {
					t.Errorf("ParsePrefix(%q) error = %v, want ErrInvalidNetwork", tt.input, err)
				}
				return
			}
			n, ok := p.Bits()
			if !ok || n != tt.wantBits {
				t.Errorf("Bits() = %d, %v; want %d, true", n, ok, tt.wantBits)
			}
			if p.String() != tt.input {
				t.Errorf("String() = %q, want %q", p.String(), tt.input)
			}
		})
	}
}

func TestDeriveMask(t *testing.T) {
	tests := []struct {
		n    int
		want uint32
	}{
		{0, 0},
		{1, 0x80000000},
		{8, 0xFF000000},
		{24, 0xFFFFFF00},
		{31, 0xFFFFFFFE},
		{32, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		if got := DeriveMask(tt.n); got != tt.want {
			t.Errorf("DeriveMask(%d) = %#x, want %#x", tt.n, got, tt.want)
		}
	}
}

func TestBitsNonContiguous(t *testing.T) {
	p, err := PrefixFromMask(MustParseAddr("10.0.10.0"), 0xFF00FF00)
	if err != nil {
		t.Fatalf("PrefixFromMask: %v", err)
	}
	if n, ok := p.Bits(); ok {
		t.Errorf("Bits() = %d, true; want none for non-contiguous mask", n)
	}
	if _, err := p.ReverseZone(); !errors.Is(err, ErrNoReverseZone) {
		t.Errorf("ReverseZone() error = %v, want ErrNoReverseZone", err)
	}
	if _, ok := p.Netip(); ok {
		t.Error("Netip() ok = true for non-contiguous mask")
	}
	if got := p.String(); got != "10.0.10.0/255.0.255.0" {
		t.Errorf("String() = %q", got)
	}
}

func TestUsableNonContiguous(t *testing.T) {
	p, err := PrefixFromMask(MustParseAddr("10.0.0.0"), 0xFFFFFF7E)
	if err != nil {
		t.Fatalf("PrefixFromMask: %v", err)
	}
	got := slices.Collect(p.Usable())
	want := []Addr{MustParseAddr("10.0.0.1"), MustParseAddr("10.0.0.128")}
	if !slices.Equal(got, want) {
		t.Errorf("Usable() = %v, want %v", got, want)
	}

	// First usable address of a mask with 31 host bits.
	wide, err := PrefixFromMask(MustParseAddr("0.0.0.0"), 0x80000001)
	if err != nil {
		t.Fatalf("PrefixFromMask: %v", err)
	}
	for a := range wide.Usable() {
		if a != MustParseAddr("0.0.0.2") {
			t.Errorf("first usable = %s, want 0.0.0.2", a)
		}
		break
	}
}

func TestPrefixFromMaskRejectsHostBits(t *testing.T) {
	if _, err := PrefixFromMask(MustParseAddr("10.0.0.1"), DeriveMask(24)); !errors.Is(err, ErrInvalidNetwork) {
		t.Errorf("PrefixFromMask error = %v, want ErrInvalidNetwork", err)
	}
	if _, err := PrefixFrom(MustParseAddr("10.0.0.0"), 40); !errors.Is(err, ErrInvalidNetwork) {
		t.Errorf("PrefixFrom(/40) error = %v, want ErrInvalidNetwork", err)
	}
}

func TestContains(t *testing.T) {
	p := MustParsePrefix("10.0.0.0/8")
	if !p.Contains(MustParseAddr("10.255.255.255")) {
		t.Error("10.0.0.0/8 should contain 10.255.255.255")
	}
	if p.Contains(MustParseAddr("11.0.0.1")) {
		t.Error("10.0.0.0/8 should not contain 11.0.0.1")
	}

	all := MustParsePrefix("0.0.0.0/0")
	if !all.Contains(MustParseAddr("203.0.113.9")) {
		t.Error("0.0.0.0/0 should contain every address")
	}
}

func TestReverseZone(t *testing.T) {
	tests := []struct {
		prefix  string
		want    string
		wantErr bool
	}{
		{"192.168.123.0/24", "123.168.192", false},
		{"10.0.0.0/8", "10", false},
		{"172.16.0.0/16", "16.172", false},
		{"192.168.99.128/25", "", true},
		{"10.0.0.0/32", "", true},
		{"0.0.0.0/0", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := MustParsePrefix(tt.prefix).ReverseZone()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReverseZone() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNoReverseZone) {
				t.Errorf("ReverseZone() error = %v, want ErrNoReverseZone", err)
			}
			if got != tt.want {
				t.Errorf("ReverseZone() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUsable(t *testing.T) {
	p := MustParsePrefix("192.168.1.0/30")
	got := slices.Collect(p.Usable())
	want := []Addr{MustParseAddr("192.168.1.1"), MustParseAddr("192.168.1.2")}
	if !slices.Equal(got, want) {
		t.Errorf("Usable(/30) = %v, want %v", got, want)
	}

	// The sequence restarts from the beginning on every range.
	again := slices.Collect(p.Usable())
	if !slices.Equal(again, want) {
		t.Errorf("second Usable(/30) = %v, want %v", again, want)
	}

	for _, s := range []string{"192.168.1.0/31", "192.168.1.0/32", "255.255.255.255/32", "255.255.255.254/31"} {
		if got := slices.Collect(MustParsePrefix(s).Usable()); len(got) != 0 {
			t.Errorf("Usable(%s) = %v, want empty", s, got)
		}
	}
}

func TestUsableAscendingAndBounded(t *testing.T) {
	p := MustParsePrefix("10.20.0.0/22")
	var prev Addr
	count := 0
	for a := range p.Usable() {
		if count > 0 && a <= prev {
			t.Fatalf("sequence not strictly ascending at %s after %s", a, prev)
		}
		if a == p.Addr() || a == p.Broadcast() {
			t.Fatalf("sequence includes endpoint %s", a)
		}
		prev = a
		count++
	}
	if count != 1022 {
		t.Errorf("Usable(/22) yielded %d addresses, want 1022", count)
	}
}

func TestUsableEarlyStop(t *testing.T) {
	p := MustParsePrefix("10.0.0.0/8")
	var first []Addr
	for a := range p.Usable() {
		first = append(first, a)
		if len(first) == 3 {
			break
		}
	}
	if len(first) != 3 || first[2] != MustParseAddr("10.0.0.3") {
		t.Errorf("early stop collected %v", first)
	}
}

func TestBroadcastAndMask(t *testing.T) {
	p := MustParsePrefix("172.16.0.0/12")
	if got := p.Broadcast().String(); got != "172.31.255.255" {
		t.Errorf("Broadcast() = %s", got)
	}
	if got := p.Mask().String(); got != "255.240.0.0" {
		t.Errorf("Mask() = %s", got)
	}
}

func TestPrefixCompare(t *testing.T) {
	a := MustParsePrefix("10.0.0.0/8")
	b := MustParsePrefix("10.0.0.0/16")
	c := MustParsePrefix("192.168.0.0/16")
	if a.Compare(b) != -1 {
		t.Errorf("%s should sort before %s", a, b)
	}
	if b.Compare(c) != -1 || c.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare ordering broken")
	}
}

func TestPrefixNetip(t *testing.T) {
	p := MustParsePrefix("192.168.10.0/23")
	n, ok := p.Netip()
	if !ok || n != netip.MustParsePrefix("192.168.10.0/23") {
		t.Errorf("Netip() = %s, %v", n, ok)
	}
}
