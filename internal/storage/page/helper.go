package page

// FillData builds a page image whose payload starts with the given bytes.
// Oversized input is truncated to fit.
func FillData(b []byte) *Data {
	d := &Data{}
	if len(b) > len(d) {
		b = b[:len(d)]
	}
	copy(d[:], b)
	return d
}
