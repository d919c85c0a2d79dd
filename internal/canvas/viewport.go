package canvas

import "math"

const (
	zoomMin = 0.25
	zoomMax = 4.0
	// zoomWheelRate is the per-wheel-notch zoom multiplier.
	zoomWheelRate = 1.12
	// zoomStep is the multiplier for explicit zoom-in/out commands.
	zoomStep = 1.25
)

// Point is a position in either image space or viewport space,
// depending on context. Image space is pixels on the unscaled map
// image; viewport space is pixels on the visible canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Camera owns the pan/zoom state of one canvas instance. A DM view and
// a player display each hold their own Camera even over the same map.
type Camera struct {
	BaseScale float64 // fit-to-container scale, computed once per map load
	Zoom      float64 // bounded [zoomMin, zoomMax]
	PanX      float64 // viewport pixels
	PanY      float64
}

// NewCamera computes the base scale so the full map fits the container
// without ever upscaling beyond 1:1.
func NewCamera(containerW, containerH, imageW, imageH float64) Camera {
	base := math.Min(containerW/imageW, containerH/imageH)
	if base > 1 {
		base = 1
	}
	return Camera{BaseScale: base, Zoom: 1}
}

// EffectiveScale is the composed image-to-viewport scale factor.
func (c *Camera) EffectiveScale() float64 {
	return c.BaseScale * c.Zoom
}

// ToViewport converts an image-space point to viewport space.
func (c *Camera) ToViewport(p Point) Point {
	s := c.EffectiveScale()
	return Point{X: p.X*s + c.PanX, Y: p.Y*s + c.PanY}
}

// ToImage converts a viewport-space point to image space. It is the
// algebraic inverse of ToViewport.
func (c *Camera) ToImage(p Point) Point {
	s := c.EffectiveScale()
	return Point{X: (p.X - c.PanX) / s, Y: (p.Y - c.PanY) / s}
}

// ApplyWheel adjusts zoom from a mouse-wheel delta, keeping the image
// point under the cursor fixed so zooming feels anchored.
func (c *Camera) ApplyWheel(deltaY float64, cursor Point) {
	if deltaY == 0 {
		return
	}
	anchor := c.ToImage(cursor)
	c.setZoom(c.Zoom * math.Pow(zoomWheelRate, deltaY))
	// Re-pan so the anchor stays under the cursor.
	s := c.EffectiveScale()
	c.PanX = cursor.X - anchor.X*s
	c.PanY = cursor.Y - anchor.Y*s
}

// ZoomIn steps zoom up by one increment.
func (c *Camera) ZoomIn() { c.setZoom(c.Zoom * zoomStep) }

// ZoomOut steps zoom down by one increment.
func (c *Camera) ZoomOut() { c.setZoom(c.Zoom / zoomStep) }

// Reset restores zoom 1 and clears the pan offset.
func (c *Camera) Reset() {
	c.Zoom = 1
	c.PanX = 0
	c.PanY = 0
}

// PanBy shifts the viewport by a delta in viewport pixels.
func (c *Camera) PanBy(dx, dy float64) {
	c.PanX += dx
	c.PanY += dy
}

func (c *Camera) setZoom(z float64) {
	if z < zoomMin {
		z = zoomMin
	}
	if z > zoomMax {
		z = zoomMax
	}
	c.Zoom = z
}
