package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/tournevent/shipcallback/pkg/quote"
)

var validate = validator.New()

// DecodeJSON parses body into out. Object keys are matched regardless of
// whether the sender used snake_case, camelCase or PascalCase, so out must be
// tagged with snake_case names. Struct tags understood by validator/v10 are
// enforced after parsing.
func DecodeJSON(op string, body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return malformed(op, "invalid json", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return malformed(op, "trailing data after json value", err)
	}
	if _, ok := raw.(map[string]any); !ok {
		return malformed(op, "json value is not an object", nil)
	}

	canonical, err := json.Marshal(canonicalKeys(raw))
	if err != nil {
		return malformed(op, "re-encoding json", err)
	}
	if err := json.Unmarshal(canonical, out); err != nil {
		return malformed(op, "json does not match schema", err)
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return malformed(op, fmt.Sprintf("field %s failed %q", verrs[0].Namespace(), verrs[0].Tag()), err)
		}
		return malformed(op, "validating payload", err)
	}
	return nil
}

// EncodeJSON renders v as compact JSON.
func EncodeJSON(op string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding response: %w", op, err)
	}
	return b, nil
}

func malformed(op, message string, cause error) error {
	if cause == nil {
		cause = quote.ErrMalformedPayload
	} else {
		cause = fmt.Errorf("%w: %w", quote.ErrMalformedPayload, cause)
	}
	return quote.NewError(op, quote.KindDecode, message).WithCause(cause)
}

// canonicalKeys rewrites every object key below v to snake_case. When two
// spellings of the same key collide the snake_case spelling wins; otherwise
// the spelling that sorts first wins.
func canonicalKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(map[string]any, len(t))
		for _, k := range keys {
			ck := SnakeKey(k)
			if ck == k {
				continue
			}
			if _, seen := out[ck]; !seen {
				out[ck] = canonicalKeys(t[k])
			}
		}
		for _, k := range keys {
			if SnakeKey(k) == k {
				out[k] = canonicalKeys(t[k])
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = canonicalKeys(val)
		}
		return out
	default:
		return v
	}
}

// SnakeKey converts a camelCase or PascalCase key to snake_case.
// Keys already in snake_case are returned unchanged.
//
//	ItemTotal   -> item_total
//	adminArea2  -> admin_area_2
//	AdminArea_2 -> admin_area_2
//	ImageURL    -> image_url
func SnakeKey(k string) string {
	rs := []rune(k)
	var b bytes.Buffer
	b.Grow(len(k) + 4)
	for i, r := range rs {
		var prev, next rune
		if i > 0 {
			prev = rs[i-1]
		}
		if i+1 < len(rs) {
			next = rs[i+1]
		}

		switch {
		case unicode.IsUpper(r):
			if i > 0 && prev != '_' &&
				(unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
