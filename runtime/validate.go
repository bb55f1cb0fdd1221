package cbor

// ValidateWellFormedBytes checks that the next item in b is well-formed
// per RFC 8949 — correct header encoding, no reserved additional-info
// values, declared lengths that fit the remaining bytes, valid UTF-8 text
// — without otherwise interpreting it, and returns the bytes following
// that item.
//
// This codec never emits or accepts indefinite-length items (additional
// information 31), so well-formedness here is exactly what parseItem
// already enforces while decoding; this function exists for callers that
// want to check a buffer before committing to decode it.
func ValidateWellFormedBytes(b []byte) (rest []byte, err error) {
	return validateWellFormed(b, 0)
}

// ValidateDocument validates that b is a sequence of zero or more
// well-formed items with nothing left over.
func ValidateDocument(b []byte) error {
	for len(b) > 0 {
		var err error
		b, err = validateWellFormed(b, 0)
		if err != nil {
			return err
		}
	}
	return nil
}

func validateWellFormed(b []byte, depth int) ([]byte, error) {
	_, rest, err := parseItem(b, depth, 0)
	if err != nil {
		return b, err
	}
	return rest, nil
}
