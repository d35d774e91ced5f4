package composer

// Split breaks amount into "pretty" denominations: each result is a
// single significant digit followed by zeroes (1, 2, ..., 9, 10, 20,
// ..., 90, 100, ...), matching what a wallet's change/output selection
// would naturally hand out as banknotes. Results are ordered from the
// least significant digit upward, which is also ascending order since
// higher place values are always numerically larger.
func Split(amount uint64) []uint64 {
	var pieces []uint64
	place := uint64(1)
	for amount > 0 {
		digit := amount % 10
		if digit != 0 {
			pieces = append(pieces, digit*place)
		}
		amount /= 10
		place *= 10
	}
	return pieces
}

// IsPretty reports whether v is a single significant digit followed by
// zeroes, i.e. a value Split could itself produce.
func IsPretty(v uint64) bool {
	if v == 0 {
		return false
	}
	for v%10 == 0 {
		v /= 10
	}
	return v < 10
}

// SplitBounded behaves like Split, but additionally breaks any piece
// larger than MaxOutputSizeClient into MaxOutputSizeClient-sized chunks
// plus a pretty remainder, since MaxOutputSizeClient is itself already
// a pretty denomination.
func SplitBounded(amount uint64) []uint64 {
	var out []uint64
	for _, p := range Split(amount) {
		for p > MaxOutputSizeClient {
			out = append(out, MaxOutputSizeClient)
			p -= MaxOutputSizeClient
		}
		if p > 0 {
			out = append(out, p)
		}
	}
	return out
}
