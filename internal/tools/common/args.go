package common

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeArgs decodes MCP tool arguments into out, which must be a pointer to
// a struct with mapstructure tags. Input is weakly typed, so "50" decodes
// into an int and 85746065432 into a string. Unknown keys are ignored.
func DecodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create argument decoder: %w", err)
	}

	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// RecoverQuotedArgs handles clients that send the whole argument object as
// the single key of the arguments map, with backtick-quoted names and
// values:
//
//	{"`zoom_refresh_token`: `abc`, `zoom_client_id`: `id`": ""}
//
// When args has exactly one key and every name in keys can be extracted from
// it, the extracted values are returned with ok set. Otherwise args is
// returned unchanged.
func RecoverQuotedArgs(args map[string]any, keys ...string) (map[string]any, bool) {
	if len(args) != 1 || len(keys) == 0 {
		return args, false
	}

	var raw string
	for k := range args {
		raw = k
	}

	recovered := make(map[string]any, len(keys))
	for _, key := range keys {
		if !strings.Contains(raw, "`"+key+"`") {
			return args, false
		}
		m := quotedArgPattern(key).FindStringSubmatch(raw)
		if m == nil {
			return args, false
		}
		recovered[key] = m[1]
	}

	return recovered, true
}

func quotedArgPattern(key string) *regexp.Regexp {
	return regexp.MustCompile("`" + regexp.QuoteMeta(key) + "`:\\s*`([^`]+)`")
}
