package codec

import (
	"bytes"
	"testing"
)

func TestBuffer_WriteSeek(t *testing.T) {
	var b Buffer
	if _, err := b.Write([]byte("abcd")); err != nil {
		t.Fatal(err)
	}
	b.Seek(1)
	if err := b.WriteByte('X'); err != nil {
		t.Fatal(err)
	}
	if got := string(b.Bytes()); got != "aXcd" {
		t.Errorf("Bytes = %q, want %q", got, "aXcd")
	}
	if b.Mark() != 2 || b.Len() != 4 {
		t.Errorf("Mark = %d, Len = %d", b.Mark(), b.Len())
	}
	b.Reset()
	if b.Len() != 0 || b.Mark() != 0 {
		t.Error("Reset did not empty the buffer")
	}
}

func TestBuffer_PatchLengthGrows(t *testing.T) {
	var b Buffer
	b.WriteByte(0x30)
	mark, err := b.ReserveLength(1)
	if err != nil {
		t.Fatal(err)
	}
	content := bytes.Repeat([]byte{0xAB}, 200)
	b.Write(content)
	if err := b.PatchLength(mark, 1); err != nil {
		t.Fatal(err)
	}
	got := b.Bytes()
	if len(got) != 203 {
		t.Fatalf("len = %d, want 203", len(got))
	}
	if !bytes.Equal(got[:3], []byte{0x30, 0x81, 0xC8}) {
		t.Errorf("header = % x", got[:3])
	}
	if !bytes.Equal(got[3:], content) {
		t.Error("content moved incorrectly")
	}
	if b.Mark() != 203 {
		t.Errorf("Mark = %d, want 203", b.Mark())
	}
}

func TestBuffer_PatchLengthShrinks(t *testing.T) {
	var b Buffer
	mark, _ := b.ReserveLength(3)
	b.Write([]byte("hello"))
	if err := b.PatchLength(mark, 3); err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0x05}, "hello"...)
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes = % x, want % x", b.Bytes(), want)
	}
}

func TestBuffer_MaxSize(t *testing.T) {
	b := Buffer{MaxSize: 4}
	if _, err := b.Write([]byte("abcd")); err != nil {
		t.Fatalf("write up to limit: %v", err)
	}
	if _, err := b.Write([]byte("e")); err == nil {
		t.Fatal("expected write past MaxSize to fail")
	}
	if b.Len() != 4 {
		t.Errorf("failed write changed length to %d", b.Len())
	}
}

func TestBufferPool(t *testing.T) {
	b := getBuffer()
	b.Write([]byte("data"))
	b.MaxSize = 10
	putBuffer(b)

	b2 := getBuffer()
	if b2.Len() != 0 || b2.MaxSize != 0 {
		t.Error("pooled buffer not reset")
	}
	putBuffer(b2)

	big := NewBuffer(poolMaxCap + 1)
	putBuffer(big)
}
