package stellar

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testBridge(srv *httptest.Server) *Bridge {
	return &Bridge{client: http.DefaultClient, url: srv.URL, seed: "SSEED"}
}

func TestBULAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/bul_account" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.FormValue("pubkey") != "GALICE" {
			t.Errorf("unexpected pubkey %s", r.FormValue("pubkey"))
		}
		fmt.Fprint(w, `{"status":200,"account":{"bulBalance":100,"bulLimit":5000,"trusted":true}}`)
	}))
	defer srv.Close()

	account, err := testBridge(srv).BULAccount("GALICE")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if account.BULBalance != 100 || account.BULLimit != 5000 || !account.Trusted {
		t.Fatalf("unexpected account %+v", account)
	}
}

func TestTypedErrors(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"trust", "trust"},
		{"no_account", "no_account"},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"status":400,"error":"refused","code":"%s"}`, c.code)
		}))
		_, err := testBridge(srv).BULAccount("GALICE")
		srv.Close()
		switch c.want {
		case "trust":
			if _, ok := err.(*TrustError); !ok {
				t.Errorf("code %s: want *TrustError, got %T", c.code, err)
			}
		case "no_account":
			if _, ok := err.(*AccountNotExistError); !ok {
				t.Errorf("code %s: want *AccountNotExistError, got %T", c.code, err)
			}
		}
	}
}

func TestSendForwardsParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.FormValue("destination") != "GBOB" || r.FormValue("stroops") != "600000000" ||
			r.FormValue("asset") != "BUL" || r.FormValue("seed") != "SSEED" {
			t.Errorf("unexpected form %v", r.Form)
		}
		fmt.Fprint(w, `{"status":200}`)
	}))
	defer srv.Close()

	if err := testBridge(srv).Send("GBOB", 600000000, "BUL"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestNewPaymentAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("currency") != "BTC" {
			t.Errorf("unexpected currency %s", r.FormValue("currency"))
		}
		fmt.Fprint(w, `{"status":201,"address":"1NewDepositAddress"}`)
	}))
	defer srv.Close()

	address, err := testBridge(srv).NewPaymentAddress("BTC")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if address != "1NewDepositAddress" {
		t.Fatalf("got %q", address)
	}
}

func TestGenericBridgeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":500,"error":"horizon is down"}`)
	}))
	defer srv.Close()

	err := testBridge(srv).CreateAccount("GBOB", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*TrustError); ok {
		t.Fatal("generic failures must not map to typed errors")
	}
	if _, ok := err.(*AccountNotExistError); ok {
		t.Fatal("generic failures must not map to typed errors")
	}
}
