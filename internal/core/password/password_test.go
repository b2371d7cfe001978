package password

import "testing"

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(4) // min cost keeps the test fast

	digest, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if digest == "s3cret-pass" {
		t.Fatalf("digest must not equal plaintext")
	}
	if !h.Verify("s3cret-pass", digest) {
		t.Fatalf("Verify failed for correct password")
	}
	if h.Verify("wrong-pass", digest) {
		t.Fatalf("Verify succeeded for wrong password")
	}
}

func TestHasher_SaltedDigestsDiffer(t *testing.T) {
	h := NewHasher(4)

	d1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	d2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("two hashes of the same input must differ")
	}
	if !h.Verify("same-password", d1) || !h.Verify("same-password", d2) {
		t.Fatalf("both digests must verify against the original password")
	}
}

func TestHasher_MalformedDigestIsNonMatch(t *testing.T) {
	h := NewHasher(4)

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$garbage"} {
		if h.Verify("anything", digest) {
			t.Fatalf("Verify must treat malformed digest %q as non-match", digest)
		}
	}
}

func TestNewHasher_CostFallback(t *testing.T) {
	// Out-of-range costs must still produce a working hasher.
	h := NewHasher(99)
	digest, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !h.Verify("pw123456", digest) {
		t.Fatalf("fallback-cost digest does not verify")
	}
}
