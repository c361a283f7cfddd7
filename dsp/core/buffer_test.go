package core

import "testing"

func TestFill(t *testing.T) {
	buf := make([]int, 5)
	Fill(buf, 7)

	for i, v := range buf {
		if v != 7 {
			t.Fatalf("buf[%d] = %d, want 7", i, v)
		}
	}
}

func TestCopyInto(t *testing.T) {
	dst := make([]int, 2)

	n := CopyInto(dst, []int{1, 2, 3})
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	if dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("unexpected dst: %#v", dst)
	}
}
