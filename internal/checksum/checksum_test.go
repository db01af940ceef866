package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("")
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %q, want %q", got, empty)
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different inputs should not collide")
	}
}

func TestMatches(t *testing.T) {
	data := []byte(`{"cat": "KAT"}`)
	if !Matches(Sum(data), data) {
		t.Error("digest of data should match")
	}
	if Matches(Sum(data), []byte(`{"cat": "KAT "}`)) {
		t.Error("changed data should not match")
	}
	if Matches("", nil) {
		t.Error("empty digest should never match")
	}
}
