package parser

import "strconv"

func parseIntLiteral(lit string) int64 {
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseRealLiteral(lit string) float64 {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0
	}
	return f
}
