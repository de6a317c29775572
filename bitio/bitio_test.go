package bitio

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	w := NewWriter()
	if _, err := w.WriteBit(true); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteBits(0x2A, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteU32(0xDEADBEEF, 32); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteU64(0x1122334455667788, 64); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(w.Bytes())
	bit, err := r.ReadBit()
	if err != nil || !bit {
		t.Fatalf("ReadBit: got %v, %v", bit, err)
	}
	v7, err := r.ReadBits(7)
	if err != nil || v7 != 0x2A {
		t.Fatalf("ReadBits(7): got %v, %v", v7, err)
	}
	v32, err := r.ReadU32(32)
	if err != nil || v32 != 0xDEADBEEF {
		t.Fatalf("ReadU32: got %x, %v", v32, err)
	}
	v64, err := r.ReadU64(64)
	if err != nil || v64 != 0x1122334455667788 {
		t.Fatalf("ReadU64: got %x, %v", v64, err)
	}
}

func TestReadPastEndSignalsError(t *testing.T) {
	w := NewWriter()
	if _, err := w.WriteBits(0x1, 4); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	r := NewReader(w.Bytes())
	// The byte holds only 4 meaningful bits but is padded to 8; reading
	// beyond the single byte must fail rather than panic.
	if _, err := r.ReadBits(8); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadBits(8); err == nil {
		t.Fatal("expected error reading past end of stream")
	}
}

func TestAccountant(t *testing.T) {
	var a Accountant
	a.Add(CategoryPredictorFlag, 2)
	a.Add(CategoryResidual, 5)
	a.Add(CategoryResidual, 3)
	a.Add(CategoryTimestamp, 64)
	a.Add(CategoryMode, 1)

	if got := a.Bits(CategoryResidual); got != 8 {
		t.Errorf("CategoryResidual = %d, want 8", got)
	}
	if got := a.Total(); got != 75 {
		t.Errorf("Total() = %d, want 75", got)
	}
}
