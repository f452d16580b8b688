package archive

import "testing"

func TestObjectKey(t *testing.T) {
	if got := ObjectKey(42, "abc"); got != "42/abc.png" {
		t.Fatalf("unexpected key %q", got)
	}
}
