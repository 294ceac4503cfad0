package service

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"

	"github.com/egor/backoffice/database/queries"
)

// changeSet collects the columns whose value actually differs from the
// stored record.
type changeSet queries.Changes

func (c changeSet) text(column, current, next string) {
	if current != next {
		c[column] = next
	}
}

func (c changeSet) optionalText(column string, current, next *string) {
	if !equalPtr(current, next) {
		c[column] = value(next)
	}
}

func (c changeSet) number(column string, current, next float64) {
	if current != next {
		c[column] = next
	}
}

func (c changeSet) optionalNumber(column string, current, next *float64) {
	if !equalPtr(current, next) {
		c[column] = value(next)
	}
}

func (c changeSet) optionalInt(column string, current, next *int) {
	if !equalPtr(current, next) {
		c[column] = value(next)
	}
}

func (c changeSet) list(column string, current, next []string) {
	if !slices.Equal(current, next) {
		c[column] = next
	}
}

func (c changeSet) json(column string, current, next json.RawMessage) {
	if equalJSON(current, next) {
		return
	}
	if next == nil {
		c[column] = nil
		return
	}
	c[column] = string(next)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func equalJSON(a, b json.RawMessage) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	var va, vb any
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return bytes.Equal(a, b)
	}
	return reflect.DeepEqual(va, vb)
}
