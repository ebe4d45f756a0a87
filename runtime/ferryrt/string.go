package ferryrt

// String is the owned-text box. Crossing the boundary moves ownership
// of the backing bytes; the side that ends up with the box is the one
// that frees it.
type String struct {
	s string
}

// NewString boxes native text for a crossing.
func NewString(s string) *String {
	return &String{s: s}
}

// Take moves the text back out of the box.
func (s *String) Take() string {
	return s.s
}

// Len reports the byte length of the boxed text.
func (s *String) Len() int {
	return len(s.s)
}

// Handle pins the box and returns its wire value. Каждый переход через
// границу потребляет handle ровно один раз.
func (s *String) Handle() Handle {
	return pin(s)
}

// StringFromHandle claims the box back from a wire value. The handle is
// released; a second claim panics.
func StringFromHandle(h Handle) *String {
	return unpin(h).(*String)
}

// FreeString drops a box the foreign side handed back for disposal.
func FreeString(h Handle) {
	_ = unpin(h)
}
