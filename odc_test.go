package cpio

import "testing"

func TestOdcHeaderRoundTrip(t *testing.T) {
	h := &Header{
		Ino: 7, Mode: 0o100644, UID: 1000, GID: 1000, NLink: 1,
		ModTime: 1000000000, Size: 5, DevMajor: 8,
	}
	c := odcCodec{}
	buf, err := c.encodeHeader(h, 6)
	if err != nil {
		t.Fatalf("encodeHeader: %v", err)
	}
	if len(buf) != odcHeaderLen {
		t.Fatalf("len(buf) = %d, want %d", len(buf), odcHeaderLen)
	}
	got, nameSize, err := c.decodeRest(buf[6:])
	if err != nil {
		t.Fatalf("decodeRest: %v", err)
	}
	if nameSize != 6 {
		t.Errorf("nameSize = %d, want 6", nameSize)
	}
	if got.Size != h.Size || got.Mode != h.Mode || got.Ino != h.Ino {
		t.Errorf("decoded header mismatch: %+v vs %+v", got, h)
	}
}

func TestOdcNoAlignment(t *testing.T) {
	c := odcCodec{}
	if c.alignment() != 1 {
		t.Fatalf("odc alignment = %d, want 1 (no padding)", c.alignment())
	}
}

func TestOdcInvalidOctal(t *testing.T) {
	rest := make([]byte, odcHeaderLen-6)
	rest[0] = '8' // not a valid octal digit
	c := odcCodec{}
	if _, _, err := c.decodeRest(rest); err == nil {
		t.Fatal("expected InvalidField for non-octal digit")
	}
}
