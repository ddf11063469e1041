package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("") is a well-known constant.
	if got := Sum(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestOf_StableAcrossMapOrder(t *testing.T) {
	a, err := Of(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Of(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("digests differ: %s vs %s", a, b)
	}
}

func TestOf_UnencodableValue(t *testing.T) {
	if _, err := Of(make(chan int)); err == nil {
		t.Fatal("expected error for channel value")
	}
}
