package conversion

import (
	"math/big"
	"testing"
)

func TestToEuroCents(t *testing.T) {
	cases := []struct {
		name     string
		currency string
		amount   int64
		price    string
		want     int64
	}{
		{"btc whole price", "BTC", 100000, "6000", 600},
		{"btc fractional price", "BTC", 100000, "6123.45", 612},
		{"eth one coin", "ETH", 0, "150.50", 0},
		{"btc dust rounds down", "BTC", 1, "6000", 0},
		{"half rounds up", "BTC", 500, "1000", 1},
		{"xlm", "XLM", 10000000, "0.25", 25},
	}
	for _, c := range cases {
		amount := big.NewInt(c.amount)
		got, err := ToEuroCents(c.currency, amount, c.price)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %d euro cents, want %d", c.name, got, c.want)
		}
	}
}

func TestToEuroCentsOneETH(t *testing.T) {
	wei, _ := new(big.Int).SetString("1000000000000000000", 10)
	got, err := ToEuroCents("ETH", wei, "150.50")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got != 15050 {
		t.Fatalf("got %d euro cents, want 15050", got)
	}
}

func TestToEuroCentsErrors(t *testing.T) {
	if _, err := ToEuroCents("DOGE", big.NewInt(1), "1"); err == nil {
		t.Error("expected error for unknown currency")
	}
	if _, err := ToEuroCents("BTC", big.NewInt(-1), "1"); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := ToEuroCents("BTC", big.NewInt(1), "not a price"); err == nil {
		t.Error("expected error for unparsable price")
	}
	if _, err := ToEuroCents("BTC", big.NewInt(1), "0"); err == nil {
		t.Error("expected error for zero price")
	}
}

func TestToStroops(t *testing.T) {
	cases := []struct {
		name      string
		euroCents int64
		price     string
		want      int64
	}{
		{"bul at ten cents", 600, "0.1", 600000000},
		{"xlm", 25, "0.25", 10000000},
		{"zero", 0, "0.1", 0},
	}
	for _, c := range cases {
		got, err := ToStroops(c.euroCents, c.price)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %d stroops, want %d", c.name, got, c.want)
		}
	}
}

//converting cents to stroops and back with the same quote must land within
//one indivisible unit of the original
func TestRoundTripBound(t *testing.T) {
	prices := []string{"0.1", "0.25", "3.14159", "0.07"}
	amounts := []int64{1, 7, 99, 500, 1234, 99999}
	for _, price := range prices {
		for _, cents := range amounts {
			stroops, err := ToStroops(cents, price)
			if err != nil {
				t.Fatalf("price %s cents %d: %v", price, cents, err)
			}
			back, err := ToEuroCents("XLM", big.NewInt(stroops), price)
			if err != nil {
				t.Fatalf("price %s stroops %d: %v", price, stroops, err)
			}
			diff := back - cents
			if diff < -1 || diff > 1 {
				t.Errorf("price %s: %d cents -> %d stroops -> %d cents, drift %d", price, cents, stroops, back, diff)
			}
		}
	}
}

func TestToEuroCentsMonotonic(t *testing.T) {
	price := "6123.45"
	prev := int64(-1)
	for amount := int64(0); amount < 2000; amount += 37 {
		got, err := ToEuroCents("BTC", big.NewInt(amount), price)
		if err != nil {
			t.Fatalf("amount %d: %v", amount, err)
		}
		if got < prev {
			t.Fatalf("amount %d: %d cents is less than previous %d", amount, got, prev)
		}
		prev = got
	}
}

func TestDecimals(t *testing.T) {
	for currency, want := range map[string]int{"BTC": 8, "ETH": 18, "XLM": 7, "BUL": 7, "EUR": 2} {
		got, err := Decimals(currency)
		if err != nil {
			t.Fatalf("%s: %v", currency, err)
		}
		if got != want {
			t.Errorf("%s: got %d decimals, want %d", currency, got, want)
		}
	}
	if _, err := Decimals("RMB"); err == nil {
		t.Error("expected error for unknown currency")
	}
}
