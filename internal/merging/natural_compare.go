package merging

// naturalCompare orders strings so that maximal runs of decimal digits
// compare by numeric value instead of code point, e.g. "a2" sorts before
// "a10". All other bytes compare by code point. When one string runs out
// the shorter one sorts first.
//
// The order itself is only used to make the canonical argument encoding
// deterministic; any total order would detect the same conflicts, but
// this one keeps diagnostics stable for humans.
func naturalCompare(a, b string) int {
	aIdx, bIdx := 0, 0
	for aIdx < len(a) && bIdx < len(b) {
		if isDigit(a[aIdx]) && isDigit(b[bIdx]) {
			var aNum, bNum uint64
			for aIdx < len(a) && isDigit(a[aIdx]) {
				aNum = aNum*10 + uint64(a[aIdx]-'0')
				aIdx++
			}
			for bIdx < len(b) && isDigit(b[bIdx]) {
				bNum = bNum*10 + uint64(b[bIdx]-'0')
				bIdx++
			}
			if aNum < bNum {
				return -1
			}
			if aNum > bNum {
				return 1
			}
		} else {
			if a[aIdx] < b[bIdx] {
				return -1
			}
			if a[aIdx] > b[bIdx] {
				return 1
			}
			aIdx++
			bIdx++
		}
	}
	return (len(a) - aIdx) - (len(b) - bIdx)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
