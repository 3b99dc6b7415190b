package keymap

import "testing"

func TestRoundTripAllIndices(t *testing.T) {
	tr := New()
	for i := 0; i < 24; i++ {
		token, err := tr.To(i, FormatOpenKey)
		if err != nil {
			t.Fatalf("To(%d): %v", i, err)
		}
		back, err := tr.FromOpenKey(token)
		if err != nil {
			t.Fatalf("FromOpenKey(%q): %v", token, err)
		}
		if back != i {
			t.Fatalf("round trip mismatch: index %d -> %q -> %d", i, token, back)
		}
	}
}

func TestInvalidIndex(t *testing.T) {
	tr := New()
	if _, err := tr.To(24, FormatOpenKey); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
	if _, err := tr.To(-1, FormatOpenKey); err == nil {
		t.Fatalf("expected error for negative index")
	}
}

func TestEmptyInputProducesEmptyOutput(t *testing.T) {
	tr := New()
	idx, err := tr.FromOpenKey("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != -1 {
		t.Fatalf("expected -1 for empty input, got %d", idx)
	}
}

func TestRelativeKeyIsSymmetric(t *testing.T) {
	n := HarmonicNeighbours("8A")
	if n.RelativeKey != "8B" {
		t.Fatalf("expected relative of 8A to be 8B, got %q", n.RelativeKey)
	}
	back := HarmonicNeighbours("8B")
	if back.RelativeKey != "8A" {
		t.Fatalf("expected relative of 8B to be 8A, got %q", back.RelativeKey)
	}
}

func TestHarmonicNeighboursWrapAround(t *testing.T) {
	n := HarmonicNeighbours("12A")
	if n.EnergyUp[0] != "1A" {
		t.Fatalf("expected wraparound neighbour 1A, got %q", n.EnergyUp[0])
	}
	n2 := HarmonicNeighbours("1A")
	if n2.EnergyDown[0] != "12A" {
		t.Fatalf("expected wraparound neighbour 12A, got %q", n2.EnergyDown[0])
	}
}

func TestRekordboxKeyIDStable(t *testing.T) {
	tr := New()
	// index 20 -> Open Key "1A" per the table, which maps to id 21.
	token, _ := tr.To(20, FormatOpenKey)
	if token != "1A" {
		t.Fatalf("expected index 20 to map to 1A, got %q", token)
	}
	if id := tr.RekordboxKeyID(20); id != 21 {
		t.Fatalf("expected rekordbox key id 21, got %d", id)
	}
}
