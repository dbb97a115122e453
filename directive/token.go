package directive

// IsValidToken reports whether s is an HTTP token: non-empty and free of
// control characters, space and the delimiters ()<>@,;:\"/[]?={}.
func IsValidToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenByte(s[i]) {
			return false
		}
	}
	return true
}

func isTokenByte(c byte) bool {
	if c <= 0x1f || c == 0x7f {
		return false
	}
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=', '{', '}', ' ':
		return false
	}
	return true
}
