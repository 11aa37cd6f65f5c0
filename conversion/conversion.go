package conversion

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"paket.global/funder-go/util"
)

//Indivisible unit digits per divisible unit.
const (
	BTCDecimals     = 8  //satoshi
	ETHDecimals     = 18 //wei
	StellarDecimals = 7  //stroop, XLM and BUL
	EuroDecimals    = 2  //cent
)

var ten = big.NewInt(10)

//Decimals returns the indivisible unit digits for a currency tag
func Decimals(currency string) (int, error) {
	switch currency {
	case "BTC":
		return BTCDecimals, nil
	case "ETH":
		return ETHDecimals, nil
	case "XLM", "BUL":
		return StellarDecimals, nil
	case "EUR":
		return EuroDecimals, nil
	}
	return 0, fmt.Errorf("unknown currency %s", currency)
}

//parsePrice parses a decimal string price quote into its integer
//"fictitious units" representation and the count of fractional digits
//it was scaled by. "12.345" -> 12345, 3.
func parsePrice(price string) (*big.Int, int, error) {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, 0, err
	}
	if d.Sign() <= 0 {
		return nil, 0, errors.New("price must be positive")
	}
	digits := 0
	if d.Exponent() < 0 {
		digits = int(-d.Exponent())
	}
	return d.Shift(int32(digits)).BigInt(), digits, nil
}

//pow10 is 10^n for n >= 0
func pow10(n int) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(n)), nil)
}

//divRound divides n by den rounding half up. n and den must be non-negative.
func divRound(n, den *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(n, den, new(big.Int))
	if r.Lsh(r, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

//ToEuroCents converts an amount of indivisible units of a currency to euro
//cents, given the price of one divisible unit in EUR as a decimal string.
//The price is scaled to an integer, multiplied by the amount, and the result
//is rescaled in one division so no precision is lost before the final
//rounding. The remainder of that division is rounded half up, the sole
//accepted precision loss, logged for audit.
func ToEuroCents(currency string, amount *big.Int, price string) (int64, error) {
	if amount.Sign() < 0 {
		return 0, errors.New("amount must not be negative")
	}
	decimals, err := Decimals(currency)
	if err != nil {
		return 0, err
	}
	fictPrice, priceDigits, err := parsePrice(price)
	if err != nil {
		return 0, err
	}
	fictAmount := new(big.Int).Mul(fictPrice, amount)
	//minus EuroDecimals because the price is in EUR and the result in cents
	shift := priceDigits + decimals - EuroDecimals
	var cents *big.Int
	if shift >= 0 {
		cents = divRound(fictAmount, pow10(shift))
		if rem := new(big.Int).Rem(fictAmount, pow10(shift)); rem.Sign() != 0 {
			util.LogWarn("precision loss: %s/10^%d rounded to %s euro cents", fictAmount, shift, cents)
		}
	} else {
		cents = new(big.Int).Mul(fictAmount, pow10(-shift))
	}
	if !cents.IsInt64() {
		return 0, fmt.Errorf("%s %s overflows euro cents", amount, currency)
	}
	return cents.Int64(), nil
}

//ToStroops converts euro cents to stroops of XLM or BUL, given the price of
//one asset unit in EUR as a decimal string. Both operands are scaled to the
//same fictitious units grid before the single division; the dropped
//remainder is logged for audit.
func ToStroops(euroCents int64, price string) (int64, error) {
	if euroCents < 0 {
		return 0, errors.New("amount must not be negative")
	}
	fictPrice, priceDigits, err := parsePrice(price)
	if err != nil {
		return 0, err
	}
	fictAmount := new(big.Int).Mul(big.NewInt(euroCents), pow10(StellarDecimals+priceDigits))
	//plus EuroDecimals because the amount is in cents and the price in EUR
	den := new(big.Int).Mul(fictPrice, pow10(EuroDecimals))
	stroops := divRound(fictAmount, den)
	if rem := new(big.Int).Rem(fictAmount, den); rem.Sign() != 0 {
		util.LogWarn("precision loss: %s/%s rounded to %s stroops", fictAmount, den, stroops)
	}
	if !stroops.IsInt64() {
		return 0, fmt.Errorf("%d euro cents overflows stroops", euroCents)
	}
	return stroops.Int64(), nil
}
