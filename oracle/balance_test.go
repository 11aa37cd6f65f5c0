package oracle

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testExplorer(btc, eth *httptest.Server) *Explorer {
	ex := &Explorer{client: http.DefaultClient, ethKey: "test-key"}
	if btc != nil {
		ex.btcAPI = btc.URL
	}
	if eth != nil {
		ex.ethAPI = eth.URL
	}
	return ex
}

func TestBTCBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/address/1BoatSLRHtKNngkdXEeobR76b53LETtpyT" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"err_no":0,"err_msg":"","data":{"balance":123456}}`)
	}))
	defer srv.Close()

	balance, err := testExplorer(srv, nil).Balance("1BoatSLRHtKNngkdXEeobR76b53LETtpyT", "BTC")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if balance.Int64() != 123456 {
		t.Fatalf("got %s satoshi, want 123456", balance)
	}
}

func TestBTCBalanceNoHistoryIsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"err_no":0,"err_msg":"","data":null}`)
	}))
	defer srv.Close()

	balance, err := testExplorer(srv, nil).Balance("fresh-address", "BTC")
	if err != nil {
		t.Fatalf("a fresh address is a zero balance, not an error: %v", err)
	}
	if balance.Sign() != 0 {
		t.Fatalf("got %s satoshi, want 0", balance)
	}
}

func TestBTCBalanceProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"err_no":1,"err_msg":"invalid address","data":null}`)
	}))
	defer srv.Close()

	_, err := testExplorer(srv, nil).Balance("nonsense", "BTC")
	balErr, ok := err.(*BalanceError)
	if !ok {
		t.Fatalf("want *BalanceError, got %T: %v", err, err)
	}
	if balErr.Message != "invalid address" {
		t.Fatalf("provider message not carried: %q", balErr.Message)
	}
}

func TestETHBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("address") != "0xabc" || r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		//40 ETH in wei, does not fit int64
		fmt.Fprint(w, `{"status":"1","message":"OK","result":"40000000000000000000"}`)
	}))
	defer srv.Close()

	balance, err := testExplorer(nil, srv).Balance("0xabc", "ETH")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if balance.String() != "40000000000000000000" {
		t.Fatalf("got %s wei", balance)
	}
}

func TestETHBalanceProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","message":"NOTOK","result":"Max rate limit reached"}`)
	}))
	defer srv.Close()

	_, err := testExplorer(nil, srv).Balance("0xabc", "ETH")
	balErr, ok := err.(*BalanceError)
	if !ok {
		t.Fatalf("want *BalanceError, got %T: %v", err, err)
	}
	if balErr.Message != "Max rate limit reached" {
		t.Fatalf("provider message not carried: %q", balErr.Message)
	}
}

func TestUnknownCurrency(t *testing.T) {
	if _, err := testExplorer(nil, nil).Balance("addr", "DOGE"); err == nil {
		t.Fatal("expected error for unknown currency")
	}
}
