package widgets

import "sync"

// Marquee scrolls text that is wider than a fixed number of characters.
type Marquee struct {
	runes  []rune
	width  int
	offset int

	mu sync.Mutex
}

// NewMarquee creates a marquee showing width characters of text at a time.
func NewMarquee(text string, width int) *Marquee {
	m := &Marquee{width: width}
	m.SetText(text)
	return m
}

// SetText replaces the text and restarts scrolling.
func (m *Marquee) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runes = []rune(text)
	m.offset = 0
}

// Scrolls reports whether the text is too wide and needs scrolling.
func (m *Marquee) Scrolls() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runes) > m.width
}

// Next returns the visible window and advances it by one character.
// Text that fits is returned unchanged.
func (m *Marquee) Next() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.runes) <= m.width {
		return string(m.runes)
	}

	// a gap separates the end of the text from its restart
	loop := append(append([]rune{}, m.runes...), []rune("   ")...)
	window := make([]rune, 0, m.width)
	for i := range m.width {
		window = append(window, loop[(m.offset+i)%len(loop)])
	}
	m.offset = (m.offset + 1) % len(loop)
	return string(window)
}
