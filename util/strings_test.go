package util

import (
	"strings"
	"testing"
)

type testForm struct {
	CallSign string `format:"trim,lower"`
	Name     string `format:"trim"`
	Amount   string `format:"num,trim"`
	Plain    string
}

func TestStrings(t *testing.T) {
	form := testForm{CallSign: "  Alpha-One ", Name: " Jane Doe ", Amount: "42", Plain: " keep "}
	if err := Strings(&form); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if form.CallSign != "alpha-one" {
		t.Errorf("got %q", form.CallSign)
	}
	if form.Name != "Jane Doe" {
		t.Errorf("got %q", form.Name)
	}
	if form.Plain != " keep " {
		t.Errorf("untagged field must be untouched, got %q", form.Plain)
	}
}

func TestStringsRejectsNonNumeric(t *testing.T) {
	form := testForm{Amount: "42x"}
	if err := Strings(&form); err == nil {
		t.Fatal("expected error for non numeric amount")
	}
}

func TestStringsRejectsNonPointer(t *testing.T) {
	if err := Strings(testForm{}); err == nil {
		t.Fatal("expected error for non pointer form")
	}
}

func TestReadReader(t *testing.T) {
	var collected []byte
	err := ReadReader(strings.NewReader(strings.Repeat("x", 3000)), func(block []byte) {
		collected = append(collected, block...)
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(collected) != 3000 {
		t.Fatalf("got %d bytes, want 3000", len(collected))
	}
}
