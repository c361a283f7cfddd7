package core

// Sample is the element type of the history and analysis buffers.
type Sample interface {
	~int | ~int64 | ~float64
}

// Fill sets every element of buf to v.
func Fill[T Sample](buf []T, v T) {
	for i := range buf {
		buf[i] = v
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[T Sample](dst, src []T) int {
	return copy(dst, src)
}
