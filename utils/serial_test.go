package utils

import (
	"strings"
	"testing"
)

func TestExpandSerialRange(t *testing.T) {
	serials := ExpandSerialRange("608116-030-0912712", "608116-030-0912716")
	if len(serials) != 5 {
		t.Fatalf("expected 5 serials, got %d", len(serials))
	}
	if serials[0] != "608116-030-0912712" {
		t.Errorf("first serial = %q", serials[0])
	}
	if serials[4] != "608116-030-0912716" {
		t.Errorf("last serial = %q", serials[4])
	}
	for i := 1; i < len(serials); i++ {
		if !(serials[i] > serials[i-1]) {
			t.Errorf("serials not strictly increasing at %d: %q <= %q", i, serials[i], serials[i-1])
		}
	}
	for _, s := range serials {
		if !strings.HasPrefix(s, "608116-030-") {
			t.Errorf("serial %q lost its prefix", s)
		}
		if len(s) != len("608116-030-0912712") {
			t.Errorf("serial %q changed width", s)
		}
	}
}

func TestExpandSerialRangePreservesZeroPadding(t *testing.T) {
	serials := ExpandSerialRange("HDFC-01-0008", "HDFC-01-0011")
	want := []string{"HDFC-01-0008", "HDFC-01-0009", "HDFC-01-0010", "HDFC-01-0011"}
	if len(serials) != len(want) {
		t.Fatalf("expected %d serials, got %d", len(want), len(serials))
	}
	for i := range want {
		if serials[i] != want[i] {
			t.Errorf("serials[%d] = %q, want %q", i, serials[i], want[i])
		}
	}
}

func TestExpandSerialRangeMismatchedPrefix(t *testing.T) {
	if got := ExpandSerialRange("AAA-001", "BBB-005"); len(got) != 0 {
		t.Errorf("mismatched prefixes should expand to nothing, got %v", got)
	}
}

func TestExpandSerialRangeStartPastEnd(t *testing.T) {
	if got := ExpandSerialRange("AAA-005", "AAA-001"); len(got) != 0 {
		t.Errorf("start past end should expand to nothing, got %v", got)
	}
}

func TestExpandSerialRangeSingle(t *testing.T) {
	got := ExpandSerialRange("AAA-003", "AAA-003")
	if len(got) != 1 || got[0] != "AAA-003" {
		t.Errorf("single-element range = %v", got)
	}
}

func TestExpandSerialRangeNoDigits(t *testing.T) {
	if got := ExpandSerialRange("ABC", "ABD"); len(got) != 0 {
		t.Errorf("serials without numeric suffix should expand to nothing, got %v", got)
	}
}

func TestSplitSerial(t *testing.T) {
	prefix, suffix, ok := SplitSerial("608116-030-0912712")
	if !ok {
		t.Fatal("expected a split")
	}
	if prefix != "608116-030-" || suffix != "0912712" {
		t.Errorf("split = %q / %q", prefix, suffix)
	}

	if _, _, ok := SplitSerial("no-digits-here-"); ok {
		t.Error("expected no split for serial without trailing digits")
	}
}

func TestSerialRangeSize(t *testing.T) {
	if n := SerialRangeSize("608116-030-0912712", "608116-030-0912716"); n != 5 {
		t.Errorf("size = %d, want 5", n)
	}
	if n := SerialRangeSize("AAA-001", "BBB-005"); n != 0 {
		t.Errorf("mismatched prefixes size = %d, want 0", n)
	}
	if n := SerialRangeSize("AAA-0001", "AAA-9999"); n != 9999 {
		t.Errorf("size = %d, want 9999", n)
	}
}
