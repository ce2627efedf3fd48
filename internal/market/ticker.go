package market

import (
	"regexp"
	"strings"
)

var bracketPattern = regexp.MustCompile(`[（(]([A-Za-z0-9.]+)[)）]`)

// ExtractStockCode pulls a ticker out of a stock label like
// 贵州茅台(600519) and normalizes it to an exchange-suffixed symbol.
// Codes that already carry a suffix win over bare ones.
func ExtractStockCode(stock string) string {
	matches := bracketPattern.FindAllStringSubmatch(stock, -1)
	if len(matches) == 0 {
		return ""
	}

	var bare string
	for _, m := range matches {
		code := strings.ToUpper(m[1])
		if strings.Contains(code, ".") {
			return code
		}
		if bare == "" {
			bare = code
		}
	}
	return withExchangeSuffix(bare)
}

// withExchangeSuffix maps a bare 6-digit A-share code to its venue.
func withExchangeSuffix(code string) string {
	if len(code) != 6 {
		return code
	}
	switch code[0] {
	case '6', '9':
		return code + ".SH"
	case '0', '3':
		return code + ".SZ"
	case '4', '8':
		return code + ".BJ"
	}
	return code
}

// IsAShare reports whether the symbol trades on a mainland exchange.
func IsAShare(symbol string) bool {
	return strings.HasSuffix(symbol, ".SH") ||
		strings.HasSuffix(symbol, ".SZ") ||
		strings.HasSuffix(symbol, ".BJ")
}
