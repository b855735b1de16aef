package hal

import "sync"

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte

	// presented is bumped on every Present so the window only re-uploads changed frames.
	presented uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * PixelFormatRGBA8888.BytesPerPixel()
	fb := &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
	fb.ClearRGB(0, 0, 0)
	return fb
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGBA8888 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	f.presented++
	f.mu.Unlock()
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := 0; i+3 < len(f.buf); i += 4 {
		f.buf[i] = r
		f.buf[i+1] = g
		f.buf[i+2] = b
		f.buf[i+3] = 0xFF
	}
}

// snapshot copies the buffer into dst and reports the present sequence it belongs to.
func (f *hostFramebuffer) snapshot(dst []byte) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
	return f.presented
}

func (f *hostFramebuffer) presentSeq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presented
}
