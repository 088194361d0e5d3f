package dynclass

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/randalmurphal/dynclass/pkg/dynclass/ident"
)

// Decode copies the record's pairs into out, which must be a pointer to a
// struct or map. Struct fields match by `dynclass` tag, then by name ignoring
// case and snake_case differences ("first_name" fills FirstName).
func (r *Record) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:    out,
		TagName:   sourceTag,
		MatchName: matchFieldName,
	})
	if err != nil {
		return fmt.Errorf("decode %s: %w", r.class.name, err)
	}
	if err := dec.Decode(r.Map()); err != nil {
		return fmt.Errorf("decode %s: %w", r.class.name, err)
	}
	return nil
}

// matchFieldName compares a record key with a Go struct field name.
func matchFieldName(key, field string) bool {
	if strings.EqualFold(key, field) {
		return true
	}
	return ident.Snake(key) == ident.Snake(field)
}
