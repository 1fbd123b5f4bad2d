package patterns

func lastThree(prices []float64) (p2, p1, p0 float64, ok bool) {
	n := len(prices)
	if n < 3 {
		return 0, 0, 0, false
	}
	return prices[n-3], prices[n-2], prices[n-1], true
}

// PullbackAndBounce: p2 above ma, p1 pulled back to within tolerance above
// ma (inclusive), p0 back above ma and above p1.
func PullbackAndBounce(prices []float64, ma, tolerance float64) bool {
	p2, p1, p0, ok := lastThree(prices)
	if !ok {
		return false
	}
	wasAbove := p2 > ma
	pulledBack := p1 < p2 && p1 <= ma*(1+tolerance)
	bounced := p0 > ma && p0 > p1
	return wasAbove && pulledBack && bounced
}

// PullbackAndReject mirrors PullbackAndBounce from below.
func PullbackAndReject(prices []float64, ma, tolerance float64) bool {
	p2, p1, p0, ok := lastThree(prices)
	if !ok {
		return false
	}
	wasBelow := p2 < ma
	pulledBack := p1 > p2 && p1 >= ma*(1-tolerance)
	rejected := p0 < ma && p0 < p1
	return wasBelow && pulledBack && rejected
}
