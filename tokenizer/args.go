package tokenizer

import (
	"strconv"
	"strings"
)

// ParseArguments turns command arguments into tokens. "key=value" sets key;
// a bare word becomes ARG1, ARG2 and so on in order.
func ParseArguments(args []string) Ordered {
	var out Ordered
	n := 1
	for _, arg := range args {
		if key, value, ok := strings.Cut(arg, "="); ok {
			out = append(out, Token{Key: key, Value: value})
			continue
		}
		out = append(out, Token{Key: "ARG" + strconv.Itoa(n), Value: arg})
		n++
	}
	return out
}
