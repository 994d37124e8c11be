package ui

// Layout constants for the single-pane chat screen.
const (
	HeaderHeight = 2 // title line + divider
	FooterHeight = 1
	InputHeight  = 3 // textarea rows
	InputChrome  = 2 // input border top/bottom

	ContentPaddingH = 4 // Content style padding left+right
	InputPaddingH   = 4 // input border (2) + padding (2)

	// Bubbles never span more than this share of the chat width.
	BubbleWidthRatio = 0.75
	MinBubbleWidth   = 10
)

// ViewportSize returns the chat viewport dimensions for a terminal size.
// Both values are at least 1.
func ViewportSize(termWidth, termHeight int) (width, height int) {
	width = termWidth - ContentPaddingH
	height = termHeight - HeaderHeight - FooterHeight - InputHeight - InputChrome
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// InputWidth returns the textarea width inside its bordered box.
func InputWidth(termWidth int) int {
	w := termWidth - InputPaddingH
	if w < 1 {
		w = 1
	}
	return w
}

// BubbleWidth returns the maximum outer width of a message bubble.
func BubbleWidth(chatWidth int) int {
	w := int(float64(chatWidth) * BubbleWidthRatio)
	if w < MinBubbleWidth {
		w = MinBubbleWidth
	}
	if w > chatWidth && chatWidth > 0 {
		w = chatWidth
	}
	return w
}
