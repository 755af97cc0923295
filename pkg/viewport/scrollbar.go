package viewport

import "github.com/go-drift/scrollkit/pkg/geometry"

// ThumbRect returns the scrollbar thumb rectangle for the axis, in window
// coordinates within the node's bar region. The thumb length is the track
// scaled by visible/content, floored at minThumb; its travel maps the
// scroll offset across the remaining track. Returns the zero rect when
// the node has no bar on that axis or nothing to scroll.
func (n *Node) ThumbRect(axis Axis, minThumb float64) geometry.Rect {
	bar := n.bars[axis]
	effect := n.effects[axis]
	if bar.IsEmpty() || effect == nil {
		return geometry.Rect{}
	}
	content := n.content[axis]
	visible := n.ViewportExtent(axis)
	if content <= visible || content <= 0 {
		return geometry.Rect{}
	}

	track := bar.Height()
	if axis == AxisHorizontal {
		track = bar.Width()
	}

	thumb := track * visible / content
	if thumb < minThumb {
		thumb = minThumb
	}
	if thumb > track {
		thumb = track
	}

	_, maxScroll := effect.Extents()
	travel := 0.0
	if maxScroll > 0 {
		travel = geometry.Clamp(effect.Position(), 0, maxScroll) / maxScroll * (track - thumb)
	}

	if axis == AxisHorizontal {
		return geometry.RectFromLTWH(bar.Left+travel, bar.Top, thumb, bar.Height())
	}
	return geometry.RectFromLTWH(bar.Left, bar.Top+travel, bar.Width(), thumb)
}
