package availability

import (
	"os"
	"testing"
)

func TestCountSeats(t *testing.T) {
	html, err := os.ReadFile("../../testdata/fixtures/seatmap.html")
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}

	tokens := []string{"unavailable", "taken", "sold", "booked"}
	sold, capacity, ok := CountSeats(string(html), ".seat, [data-seat]", tokens)
	if !ok {
		t.Fatal("expected seat nodes to be found")
	}
	if capacity != 8 {
		t.Errorf("capacity: got %d, want 8", capacity)
	}
	// A2 (taken), A3 (sold), B1 (data-status), B2 (aria-disabled).
	if sold != 4 {
		t.Errorf("sold: got %d, want 4", sold)
	}
}

func TestCountSeatsNoSeatNodes(t *testing.T) {
	if _, _, ok := CountSeats("<html><body><p>No plan here</p></body></html>", ".seat", nil); ok {
		t.Error("expected ok=false when the page has no seat nodes")
	}
}

func TestCountSeatsBadHTMLIsBestEffort(t *testing.T) {
	// goquery tolerates malformed markup; the function must not panic.
	sold, capacity, ok := CountSeats("<div<><span class='seat taken'>", ".seat", []string{"taken"})
	_ = sold
	_ = capacity
	_ = ok
}
