package memory

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hadi77ir/go-relay/relay"
)

// FieldKey builds a key extractor that reads the named field of T via reflection.
//
// T may be a struct, a pointer to a struct or a map with string keys. Struct fields are
// matched by name (case-insensitive), then by json or bson tag, the same way documents
// are decoded. For structs the field is resolved once, here, and its type must be
// assignable to K. For maps the lookup happens per item; a missing entry or a value of
// another type yields the zero K.
func FieldKey[T any, K comparable](field string) (relay.KeyFunc[T, K], error) {
	typ := reflect.TypeFor[T]()
	keyType := reflect.TypeFor[K]()

	isPtr := typ.Kind() == reflect.Ptr
	if isPtr {
		typ = typ.Elem()
	}

	switch typ.Kind() {
	case reflect.Struct:
		index, fieldType, err := lookupField(typ, field)
		if err != nil {
			return nil, err
		}
		if !fieldType.AssignableTo(keyType) {
			return nil, fmt.Errorf("%w: field '%s' is %s, not %s", relay.ErrInvalidKeyField, field, fieldType, keyType)
		}
		return func(item T) K {
			v := reflect.ValueOf(item)
			if isPtr {
				if v.IsNil() {
					var zero K
					return zero
				}
				v = v.Elem()
			}
			var key K
			fv, err := v.FieldByIndexErr(index)
			if err != nil {
				return key
			}
			reflect.ValueOf(&key).Elem().Set(fv)
			return key
		}, nil

	case reflect.Map:
		if isPtr || typ.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: %s is not a map with string keys", relay.ErrInvalidKeyField, reflect.TypeFor[T]())
		}
		mapKey := reflect.ValueOf(field).Convert(typ.Key())
		return func(item T) K {
			var zero K
			v := reflect.ValueOf(item)
			if v.IsNil() {
				return zero
			}
			val := v.MapIndex(mapKey)
			if !val.IsValid() {
				return zero
			}
			key, ok := val.Interface().(K)
			if !ok {
				return zero
			}
			return key
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s has no fields", relay.ErrInvalidKeyField, reflect.TypeFor[T]())
	}
}

// lookupField finds an exported field by name, then by json and bson tag
func lookupField(typ reflect.Type, name string) ([]int, reflect.Type, error) {
	fields := reflect.VisibleFields(typ)

	for _, f := range fields {
		if f.IsExported() && !f.Anonymous && strings.EqualFold(f.Name, name) {
			return f.Index, f.Type, nil
		}
	}
	for _, tagName := range []string{"json", "bson"} {
		for _, f := range fields {
			if !f.IsExported() || f.Anonymous {
				continue
			}
			if tag := f.Tag.Get(tagName); tag != "" && strings.EqualFold(strings.Split(tag, ",")[0], name) {
				return f.Index, f.Type, nil
			}
		}
	}

	return nil, nil, fmt.Errorf("%w: %s has no field '%s'", relay.ErrInvalidKeyField, typ, name)
}
