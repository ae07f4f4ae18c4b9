package macro

// Invoke matches a call at the start of text and expands it. It returns the
// expansion and the number of bytes of text the call occupied. ok is false
// when text does not start with a complete call.
func (t *Table) Invoke(text string) (expansion string, consumed int, ok bool, err error) {
	d, open, found := t.Match(text)
	if !found {
		return "", 0, false, nil
	}
	args, n, closed := SplitArgs(text[open:])
	if !closed {
		return "", 0, false, nil
	}
	expansion, err = Expand(d, args)
	if err != nil {
		return "", 0, false, err
	}
	return expansion, open + n, true, nil
}
