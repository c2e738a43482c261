package logic

// Navigator handles navigation and viewport management over a flat list
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{}
}

// UpdateState updates the navigator's state
func (n *Navigator) UpdateState(selectedIndex, viewportOffset, viewportHeight, totalItems int) {
	n.selectedIndex = selectedIndex
	n.viewportOffset = viewportOffset
	n.viewportHeight = viewportHeight
	n.totalItems = totalItems
}

// GetSelectedIndex returns the current selected index
func (n *Navigator) GetSelectedIndex() int {
	return n.selectedIndex
}

// GetViewportOffset returns the current viewport offset
func (n *Navigator) GetViewportOffset() int {
	return n.viewportOffset
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = index
	n.clampSelection()
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Move moves the selection by delta rows
func (n *Navigator) Move(delta int) (int, int) {
	return n.SetSelectedIndex(n.selectedIndex + delta)
}

// Page moves the selection by one viewport height
func (n *Navigator) Page(down bool) (int, int) {
	step := n.viewportHeight - 1
	if step < 1 {
		step = 1
	}
	if !down {
		step = -step
	}
	return n.Move(step)
}

// Home jumps to the first item
func (n *Navigator) Home() (int, int) {
	return n.SetSelectedIndex(0)
}

// End jumps to the last item
func (n *Navigator) End() (int, int) {
	return n.SetSelectedIndex(n.totalItems - 1)
}

func (n *Navigator) clampSelection() {
	if n.selectedIndex >= n.totalItems {
		n.selectedIndex = n.totalItems - 1
	}
	if n.selectedIndex < 0 {
		n.selectedIndex = 0
	}
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible
func (n *Navigator) ensureSelectedVisible() {
	if n.viewportOffset > n.totalItems-1 {
		n.viewportOffset = n.totalItems - 1
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}

	// If selected item is above viewport, scroll up
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	// If selected item is below the viewport, scroll so it is the last visible row
	if n.selectedIndex >= n.viewportOffset+n.rows(n.viewportOffset) {
		off := n.selectedIndex - (n.viewportHeight - 2) + 1
		if off < 0 {
			off = 0
		}
		for off > 0 && n.selectedIndex < off-1+n.rows(off-1) {
			off--
		}
		for n.selectedIndex >= off+n.rows(off) {
			off++
		}
		n.viewportOffset = off
	}

	// Don't leave empty rows below the last item
	for n.viewportOffset > 0 && n.viewportOffset-1+n.rows(n.viewportOffset-1) >= n.totalItems {
		n.viewportOffset--
	}
}

func (n *Navigator) rows(offset int) int {
	return VisibleRows(offset, n.viewportHeight, n.totalItems)
}

// VisibleRows is the number of items shown at offset once the scroll
// indicators took their lines
func VisibleRows(offset, height, total int) int {
	rows := height
	if offset > 0 {
		rows-- // top indicator
	}
	if offset+rows < total {
		rows-- // bottom indicator
	}
	// Ensure we have at least 1 line for content
	if rows < 1 {
		rows = 1
	}
	return rows
}
