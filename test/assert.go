package test

import "testing"

func AssertEqual[T comparable](t *testing.T, expected, actual T) bool {
	t.Helper()

	if expected != actual {
		t.Errorf(""+
			"Not equal: \n"+
			"Expected: %v\n"+
			"Actual: %v", expected, actual)
		return false
	}

	return true
}

func AssertTrue(t *testing.T, value bool, msg string) bool {
	t.Helper()

	if !value {
		t.Errorf("Expected true: %s", msg)
		return false
	}

	return true
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
