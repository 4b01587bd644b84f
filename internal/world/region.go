package world

import "sideworld/internal/mathx"

// SpanFor returns the pixel range a chunk index covers. Spans are a pure
// function of the index: x_start is the chunk's first block column and x_end
// is one pixel short of the next chunk's x_start.
func SpanFor(index, width, blockSize int) (xStart, xEnd int) {
	xStart = mathx.AlignDown(index*width, blockSize)
	xEnd = mathx.AlignDown((index+1)*width, blockSize) - 1
	return xStart, xEnd
}

// IndexFor is the viewport index whose [index*width, (index+1)*width) band
// holds x.
func IndexFor(x float64, width int) int {
	return mathx.AlignDownFloat(x, width) / width
}
