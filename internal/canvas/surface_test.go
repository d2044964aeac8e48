package canvas

import "testing"

func TestBlend(t *testing.T) {
	tests := []struct {
		name     string
		dst, src uint32
		want     uint32
	}{
		{"opaque src wins", 0xff0000ff, 0xffff0000, 0xffff0000},
		{"transparent src keeps dst", 0xff0000ff, 0x00ff0000, 0xff0000ff},
		// 0xff*0x80/255 = 0x80, 0xff*0x7f/255 = 0x7f
		{"half red over blue", 0xff0000ff, 0x80ff0000, 0xff80007f},
		{"half white over transparent", 0x00000000, 0x80ffffff, 0x80808080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blend(tt.dst, tt.src); got != tt.want {
				t.Errorf("Blend(%#x, %#x) = %#x, want %#x", tt.dst, tt.src, got, tt.want)
			}
		})
	}
}

func TestCopyFromCanvas_OnlyRect(t *testing.T) {
	c := New(4, 4)
	c.Clear(0xff112233)
	s := NewSurface(4, 4)

	n := s.CopyFromCanvas(c, Rect{X: 1, Y: 1, Width: 2, Height: 2})
	if n != 4 {
		t.Fatalf("copied %d pixels, want 4", n)
	}
	if s.PixelAt(1, 1) != 0xff112233 || s.PixelAt(2, 2) != 0xff112233 {
		t.Fatalf("expected rect pixels to be copied")
	}
	if s.PixelAt(0, 0) != Transparent || s.PixelAt(3, 3) != Transparent {
		t.Fatalf("expected pixels outside the rect to stay untouched")
	}
}

func TestBlit_ClipsAtEdges(t *testing.T) {
	src := NewSurface(3, 3)
	src.Clear(White)
	dst := NewSurface(4, 4)

	dst.Blit(src, 2, -1)
	// Covered: x 2..3, y 0..1
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := Transparent
			if x >= 2 && y <= 1 {
				want = White
			}
			if got := dst.PixelAt(x, y); got != want {
				t.Fatalf("PixelAt(%d,%d) = %#x, want %#x", x, y, got, want)
			}
		}
	}
}

func TestBlitScaled_NearestNeighbour(t *testing.T) {
	src := NewSurface(2, 1)
	src.Pix[0] = 0xffff0000
	src.Pix[1] = 0xff00ff00
	dst := NewSurface(6, 3)

	dst.BlitScaled(src, 1, 1, 2)
	tests := []struct {
		x, y int
		want uint32
	}{
		{1, 1, 0xffff0000},
		{2, 2, 0xffff0000},
		{3, 1, 0xff00ff00},
		{4, 2, 0xff00ff00},
		{0, 0, Transparent},
		{5, 1, Transparent},
	}
	for _, tt := range tests {
		if got := dst.PixelAt(tt.x, tt.y); got != tt.want {
			t.Errorf("PixelAt(%d,%d) = %#x, want %#x", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestBlitScaled_BlendsTranslucentSource(t *testing.T) {
	src := NewSurface(1, 1)
	src.Pix[0] = 0x80ff0000
	dst := NewSurface(2, 2)
	dst.Clear(0xff0000ff)

	dst.BlitScaled(src, 0, 0, 2)
	if got := dst.PixelAt(1, 1); got != 0xff80007f {
		t.Fatalf("PixelAt(1,1) = %#x, want 0xff80007f", got)
	}
}

func TestRGBAAndBGRX(t *testing.T) {
	s := NewSurface(1, 1)
	s.Pix[0] = 0x80102030

	rgba := s.RGBA(nil)
	if rgba[0] != 0x10 || rgba[1] != 0x20 || rgba[2] != 0x30 || rgba[3] != 0x80 {
		t.Fatalf("RGBA() = %v", rgba)
	}
	bgrx := s.BGRX(nil, 8)
	if len(bgrx) != 8 || bgrx[0] != 0x30 || bgrx[1] != 0x20 || bgrx[2] != 0x10 {
		t.Fatalf("BGRX() = %v", bgrx)
	}
}

func TestFlattenInto_ReusesAndResizes(t *testing.T) {
	s := NewSurface(2, 1)
	s.Pix[0] = 0x00ffffff
	s.Pix[1] = 0xff00ff00

	var dst Surface
	s.FlattenInto(&dst, 0x00112233)
	if dst.Width != 2 || dst.Height != 1 {
		t.Fatalf("dst = %dx%d, want 2x1", dst.Width, dst.Height)
	}
	if dst.Pix[0] != 0xff112233 {
		t.Errorf("transparent pixel = %#x, want opaque background", dst.Pix[0])
	}
	if dst.Pix[1] != 0xff00ff00 {
		t.Errorf("opaque pixel = %#x, want unchanged", dst.Pix[1])
	}
}
