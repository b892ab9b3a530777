package parametrizer

// split splits s around each occurrence of sep that is not nested between
// open and close. The segment after the last separator is always included,
// so the result has at least one element, possibly empty. Segments share
// memory with s.
func split(s string, sep, open, close byte) ([]string, error) {
	depth := 0
	last := 0
	var v []string
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth < 0 {
				return nil, fail(s, ErrRightExceedsLeft)
			}
		case sep:
			if depth == 0 {
				v = append(v, s[last:i])
				last = i + 1
			}
		}
	}
	if depth > 0 {
		return nil, fail(s, ErrLeftExceedsRight)
	}
	return append(v, s[last:]), nil
}
