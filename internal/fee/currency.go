package fee

import "strconv"

// FormatIDR renders a whole-rupiah amount the id-ID way: "Rp 1.234.567",
// no decimal digits.
func FormatIDR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	n := len(s)
	out := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	return "Rp " + sign + string(out)
}
