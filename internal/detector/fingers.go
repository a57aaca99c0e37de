package detector

// Tip and reference joint per finger, thumb first.
var fingerJoints = [5]struct{ tip, ref int }{
	{ThumbTip, ThumbIP},
	{IndexTip, IndexPIP},
	{MiddleTip, MiddlePIP},
	{RingTip, RingPIP},
	{PinkyTip, PinkyPIP},
}

// ExtendedFingers reports which fingers are extended, in the order
// thumb, index, middle, ring, pinky. The thumb counts as extended when its
// tip lies left of its IP joint; the others when the tip lies above the
// PIP joint. The frame is expected to be mirrored already.
func ExtendedFingers(h HandLandmarks) [5]bool {
	var out [5]bool
	for i, j := range fingerJoints {
		tip, ref := h.Points[j.tip], h.Points[j.ref]
		if i == 0 {
			out[i] = tip.X < ref.X
		} else {
			out[i] = tip.Y < ref.Y
		}
	}
	return out
}
