package relic

import "sync"

// allCodes builds the full syntactically valid code space: the cross
// product of eras, letters A-Z and numbers 1-99.
func allCodes() []Code {
	eras := Eras()
	codes := make([]Code, 0, len(eras)*26*99)
	for _, era := range eras {
		for letter := byte('A'); letter <= 'Z'; letter++ {
			for n := 1; n <= 99; n++ {
				codes = append(codes, Code{Era: era, Letter: letter, Number: n})
			}
		}
	}
	return codes
}

// AllCodes returns every syntactically valid code. The space is built once
// and shared; callers must not modify the returned slice.
var AllCodes = sync.OnceValue(allCodes)
