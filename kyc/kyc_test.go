package kyc

import (
	"testing"

	"paket.global/funder-go/config"
)

func testChecker(t *testing.T) *CSLChecker {
	config.Public.KYC.CSLFile = "testdata/CSL.CSV"
	config.Public.KYC.Threshold = 0.85
	checker := &CSLChecker{}
	if err := checker.load(); err != nil {
		t.Fatal(err)
	}
	return checker
}

func TestLoadKeepsIndividualsOnly(t *testing.T) {
	checker := testChecker(t)
	if len(checker.names) != 2 {
		t.Fatalf("got %d entries, want 2 individuals", len(checker.names))
	}
}

func TestScoreName(t *testing.T) {
	checker := testChecker(t)
	if score := checker.ScoreName("John Doe"); score != 1 {
		t.Errorf("listed name in different order: got %f, want 1", score)
	}
	if score := checker.ScoreName("Jon Doe"); score <= 0.85 {
		t.Errorf("minor misspell must still score high, got %f", score)
	}
	if score := checker.ScoreName("Totally Unrelated Person"); score > 0.5 {
		t.Errorf("unrelated name scored %f", score)
	}
}

func TestBasicTest(t *testing.T) {
	checker := testChecker(t)
	if result := checker.BasicTest("Doe, John"); result != 0 {
		t.Errorf("listed individual must fail the basic test, got %d", result)
	}
	if result := checker.BasicTest("Alice Honest"); result != 1 {
		t.Errorf("clean name must pass the basic test, got %d", result)
	}
}

func TestNormalize(t *testing.T) {
	if normalize("Doe, John") != normalize("john DOE") {
		t.Error("name order and case must not matter")
	}
}
