package raster

import (
	"image"
	"image/color"

	"MyLocalNotes/internal/ink"
)

// blend combines coverage (the alpha channel of mask) tinted with col into
// dst over area. dst is premultiplied; all arithmetic is integer so results
// are reproducible bit for bit.
func blend(dst, mask *image.RGBA, area image.Rectangle, col color.NRGBA, op ink.Composite) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		di := dst.PixOffset(area.Min.X, y)
		mi := mask.PixOffset(area.Min.X, y)
		for x := area.Min.X; x < area.Max.X; x, di, mi = x+1, di+4, mi+4 {
			cov := uint32(mask.Pix[mi+3])
			if cov == 0 {
				continue
			}
			d := dst.Pix[di : di+4 : di+4]
			switch op {
			case ink.DestinationOut:
				inv := 255 - cov
				d[0] = mul8(uint32(d[0]), inv)
				d[1] = mul8(uint32(d[1]), inv)
				d[2] = mul8(uint32(d[2]), inv)
				d[3] = mul8(uint32(d[3]), inv)
			case ink.Multiply:
				sa := mul8(uint32(col.A), cov)
				sr := mul8(uint32(col.R), uint32(sa))
				sg := mul8(uint32(col.G), uint32(sa))
				sb := mul8(uint32(col.B), uint32(sa))
				multiply(d, sr, sg, sb, sa)
			default:
				sa := mul8(uint32(col.A), cov)
				sr := mul8(uint32(col.R), uint32(sa))
				sg := mul8(uint32(col.G), uint32(sa))
				sb := mul8(uint32(col.B), uint32(sa))
				over(d, sr, sg, sb, sa)
			}
		}
	}
}

// over is premultiplied source-over.
func over(d []uint8, sr, sg, sb, sa uint8) {
	inv := 255 - uint32(sa)
	d[0] = sr + mul8(uint32(d[0]), inv)
	d[1] = sg + mul8(uint32(d[1]), inv)
	d[2] = sb + mul8(uint32(d[2]), inv)
	d[3] = sa + mul8(uint32(d[3]), inv)
}

// multiply is the separable multiply blend with source-over compositing:
// co = cs*cb + cs*(1-ab) + cb*(1-as).
func multiply(d []uint8, sr, sg, sb, sa uint8) {
	da := uint32(d[3])
	ia := 255 - uint32(sa)
	id := 255 - da
	ch := func(cs uint8, cb uint8) uint8 {
		v := (uint32(cs)*uint32(cb) + uint32(cs)*id + uint32(cb)*ia + 127) / 255
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	d[0] = ch(sr, d[0])
	d[1] = ch(sg, d[1])
	d[2] = ch(sb, d[2])
	d[3] = sa + mul8(da, ia)
}

// mul8 returns a*b/255 rounded, for a, b in [0, 255].
func mul8(a, b uint32) uint8 {
	v := a*b + 128
	return uint8((v + v>>8) >> 8)
}
