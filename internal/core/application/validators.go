package application

import (
	"fmt"
	"regexp"
)

var assetSymbolRegexp = regexp.MustCompile(`^[A-Z0-9]{1,12}$`)

func validateAssetSymbol(value interface{}) error {
	symbol, ok := value.(string)
	if !ok || !assetSymbolRegexp.MatchString(symbol) {
		return fmt.Errorf("must be an upper-case asset symbol")
	}
	return nil
}
