package cpio

import "testing"

func TestOldBinHeaderRoundTrip(t *testing.T) {
	h := &Header{
		Ino: 7, Mode: 0o100644, UID: 1000, GID: 1000, NLink: 1,
		ModTime: 1000000000, Size: 5,
		DevMajor: 8, DevMinor: 1,
	}
	c := oldBinCodec{swap: false}
	buf, err := c.encodeHeader(h, 6)
	if err != nil {
		t.Fatalf("encodeHeader: %v", err)
	}
	if len(buf) != oldBinHeaderLen {
		t.Fatalf("len(buf) = %d, want %d", len(buf), oldBinHeaderLen)
	}
	got, nameSize, err := c.decodeRest(buf[2:])
	if err != nil {
		t.Fatalf("decodeRest: %v", err)
	}
	if nameSize != 6 {
		t.Errorf("nameSize = %d, want 6", nameSize)
	}
	if got.Size != h.Size || got.Mode != h.Mode || got.Ino != h.Ino || got.ModTime != h.ModTime {
		t.Errorf("decoded header mismatch: %+v vs %+v", got, h)
	}
}

// TestOldBinByteSwap verifies that a header whose first two bytes are
// 0x71 0xC7 (0xC771 read little-endian) decodes in swapped mode to the
// same metadata as its little-endian counterpart, which starts 0xC7 0x71.
func TestOldBinByteSwap(t *testing.T) {
	h := &Header{Ino: 42, Mode: 0o100644, UID: 1, GID: 2, NLink: 1, Size: 3, DevMajor: 1, DevMinor: 0}

	le := oldBinCodec{swap: false}
	leBuf, err := le.encodeHeader(h, 4)
	if err != nil {
		t.Fatalf("encode little-endian: %v", err)
	}

	be := oldBinCodec{swap: true}
	beBuf, err := be.encodeHeader(h, 4)
	if err != nil {
		t.Fatalf("encode swapped: %v", err)
	}

	isOldBin, swap := detectOldBinMagic(beBuf[:2])
	if !isOldBin || !swap {
		t.Fatalf("detectOldBinMagic(swapped) = (%v, %v), want (true, true)", isOldBin, swap)
	}
	if isOldBin, swap := detectOldBinMagic(leBuf[:2]); !isOldBin || swap {
		t.Fatalf("detectOldBinMagic(le) = (%v, %v), want (true, false)", isOldBin, swap)
	}

	gotLE, _, err := le.decodeRest(leBuf[2:])
	if err != nil {
		t.Fatalf("decode le: %v", err)
	}
	gotBE, _, err := be.decodeRest(beBuf[2:])
	if err != nil {
		t.Fatalf("decode be: %v", err)
	}
	if gotLE.Ino != gotBE.Ino || gotLE.Mode != gotBE.Mode || gotLE.Size != gotBE.Size {
		t.Errorf("byte-swapped decode mismatch: %+v vs %+v", gotLE, gotBE)
	}
}

func TestOldBinValueTooLarge(t *testing.T) {
	h := &Header{UID: 0x10000}
	c := oldBinCodec{}
	if _, err := c.encodeHeader(h, 1); err == nil {
		t.Fatal("expected ValueTooLarge for 17-bit uid")
	}
}
