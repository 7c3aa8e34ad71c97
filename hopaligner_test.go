package vtreplay

import "testing"

func rec(tsStart float64, frameTSs []float64) *Recording {
	r := &Recording{Header: Header{Version: 2, Width: 80, Height: 24, Timestamp: tsStart}}
	for _, ts := range frameTSs {
		r.Frames = append(r.Frames, Frame{TS: ts, Channel: "o", Payload: "x"})
	}
	return r
}

func TestHopAlignLeftStartsEarlierProducesAlternatingHops(t *testing.T) {
	left := rec(100, []float64{0, 1, 2, 3})
	right := rec(100.3, []float64{0, 0.4, 1.1})

	align := HopAlign(left, right)

	if len(align.HopsFromLeft) != 2 {
		t.Fatalf("HopsFromLeft = %v, want 2 entries", align.HopsFromLeft)
	}
	if len(align.HopsFromRight) != 2 {
		t.Fatalf("HopsFromRight = %v, want 2 entries", align.HopsFromRight)
	}

	// Within each side's own list, from_ts is drawn from that side's frames
	// in visitation order, so it must be non-decreasing.
	for _, list := range [][]HopPoint{align.HopsFromLeft, align.HopsFromRight} {
		for i := 1; i < len(list); i++ {
			if list[i].FromTS < list[i-1].FromTS {
				t.Errorf("list %v not monotonic at index %d", list, i)
			}
		}
	}
}

func TestHopAlignTotalHopsEqualsSwapCount(t *testing.T) {
	left := rec(100, []float64{0, 1, 2, 3})
	right := rec(100.3, []float64{0, 0.4, 1.1})

	align := HopAlign(left, right)
	total := len(align.HopsFromLeft) + len(align.HopsFromRight)
	if total != 4 {
		t.Errorf("total hops = %d, want 4 (one per cursor swap before both exhaust)", total)
	}
}

func TestHopAlignRightStartingEarlierBeginsActiveOnRight(t *testing.T) {
	// R starts before L: the earlier-starting recording plays first, so the
	// first recorded hop belongs to hops_from_right.
	left := rec(100.5, []float64{0, 0.5})
	right := rec(100, []float64{0, 1, 2})

	align := HopAlign(left, right)

	if len(align.HopsFromRight) == 0 {
		t.Fatal("expected at least one hop recorded while right was active first")
	}
}

func TestHopAlignEmptyRecordingsProduceNoHops(t *testing.T) {
	left := rec(100, nil)
	right := rec(100, nil)
	align := HopAlign(left, right)
	if len(align.HopsFromLeft) != 0 || len(align.HopsFromRight) != 0 {
		t.Errorf("expected no hops for two empty recordings, got %+v", align)
	}
}
