package paginate

import "testing"

func TestNew_25ItemsOver3Pages(t *testing.T) {
	w := New(1, ItemsPerPage, 25)
	if w.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", w.TotalPages)
	}
	if w.StartIndex != 0 || w.EndIndex != 10 {
		t.Errorf("page 1 window = [%d,%d), want [0,10)", w.StartIndex, w.EndIndex)
	}

	w = New(3, ItemsPerPage, 25)
	if w.StartIndex != 20 || w.EndIndex != 25 {
		t.Errorf("page 3 window = [%d,%d), want [20,25)", w.StartIndex, w.EndIndex)
	}
}

func TestNew_ClampsOutOfRangePage(t *testing.T) {
	w := New(9, ItemsPerPage, 25)
	if w.CurrentPage != 3 {
		t.Errorf("CurrentPage = %d, want clamp to 3", w.CurrentPage)
	}

	w = New(0, ItemsPerPage, 25)
	if w.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want clamp to 1", w.CurrentPage)
	}
}

func TestNew_EmptyCollectionResetsToPageOne(t *testing.T) {
	// A stale page number from before a clear-all must land on page 1
	// with an empty window, never an out-of-range slice.
	w := New(3, ItemsPerPage, 0)
	if w.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", w.CurrentPage)
	}
	if w.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", w.TotalPages)
	}
	if w.StartIndex != 0 || w.EndIndex != 0 {
		t.Errorf("window = [%d,%d), want [0,0)", w.StartIndex, w.EndIndex)
	}
}

func TestSlice(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	page := Slice(items, New(3, ItemsPerPage, len(items)))
	if len(page) != 5 {
		t.Fatalf("len = %d, want 5", len(page))
	}
	if page[0] != 20 || page[4] != 24 {
		t.Errorf("slice = %v, want [20..24]", page)
	}

	if got := Slice(items, New(1, ItemsPerPage, len(items))); len(got) != 10 || got[0] != 0 {
		t.Errorf("page 1 slice = %v, want [0..9]", got)
	}

	if got := Slice([]int{}, New(1, ItemsPerPage, 0)); got != nil {
		t.Errorf("empty slice = %v, want nil", got)
	}
}
