// Package tracking keeps byte ranges anchored to text while the text is
// edited.
//
// A [MarkerSet] holds range markers identified by integer ids. Every edit
// applied to the underlying text is reported to the set, which shifts,
// grows, or relocates the markers so that they keep covering the same
// logical text:
//
//	markers := tracking.NewMarkerSet()
//	id := markers.Add(10, 20)
//
//	markers.Replace(0, 0, 5)   // insert 5 bytes at 0: marker becomes [15,25)
//	markers.Move(15, 25, 0)    // move the covered text to the front
//
//	start, end, ok := markers.Range(id) // 0, 10, true
//
// # Bias rules
//
// Insertion at p shifts a marker start when start >= p and a marker end when
// end > p; an empty marker at p moves as a whole. Replacing [a,b) leaves
// markers ending at or before a alone, shifts markers starting at or after b,
// and grows markers that contain the range. Markers entirely inside the
// source of a Move travel with the moved text.
package tracking
