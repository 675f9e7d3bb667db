// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fieldcodec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/luxfi/savegame"
	"github.com/luxfi/savegame/catalog"
)

// structTag is the struct tag key read by the codec.
const structTag = "save"

type fieldKind uint8

const (
	kindBool fieldKind = iota
	kindInt
	kindIndex
	kindEnum
	kindString
	kindWString
	kindBits
	kindSparse
	kindCategoryArray
	kindObject
	kindPointer
	kindObjects
	kindInterface
)

// field is the precomputed encoding of one struct field.
type field struct {
	index    int
	name     string
	tag      savegame.Tag
	kind     fieldKind
	def      int64
	defBool  bool
	defStr   string
	category catalog.Category
	enum     savegame.Enum
	length   int
	ops      sliceOps
}

// plan is the precomputed encoding of a struct type.
type plan struct {
	class  savegame.ClassType
	fields []field
}

var (
	bitArrayType = reflect.TypeOf(savegame.BitArray{})
	classTyper   = reflect.TypeOf((*ClassTyper)(nil)).Elem()
	catalogIndex = reflect.TypeOf(catalog.Index(0))
)

// options holds the comma separated settings after the tag name.
type options struct {
	def      string
	hasDef   bool
	category string
	enum     string
	wide     bool
	sparse   bool
	length   int
}

func parseOptions(parts []string) (options, error) {
	var o options
	for _, part := range parts {
		key, value, _ := strings.Cut(part, "=")
		switch key {
		case "default":
			o.def, o.hasDef = value, true
		case "category":
			o.category = value
		case "enum":
			o.enum = value
		case "wide":
			o.wide = true
		case "sparse":
			o.sparse = true
		case "bits", "len":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return o, fmt.Errorf("bad %s %q", key, value)
			}
			o.length = n
		default:
			return o, fmt.Errorf("unknown option %q", key)
		}
	}
	return o, nil
}

func buildPlan(t reflect.Type) (*plan, error) {
	p := &plan{}
	if reflect.PointerTo(t).Implements(classTyper) {
		p.class = reflect.New(t).Interface().(ClassTyper).SaveClass()
	}
	seen := make(map[savegame.Tag]string)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		raw, ok := sf.Tag.Lookup(structTag)
		if !ok || raw == "-" || !sf.IsExported() {
			continue
		}
		f, err := buildField(sf, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrBadFieldTag, t, sf.Name, err)
		}
		if prev, dup := seen[f.tag]; dup {
			return nil, fmt.Errorf("%w: %s.%s reuses %s of %s", ErrBadFieldTag, t, sf.Name, f.tag, prev)
		}
		seen[f.tag] = sf.Name
		f.index = i
		p.fields = append(p.fields, f)
	}
	return p, nil
}

func buildField(sf reflect.StructField, raw string) (field, error) {
	parts := strings.Split(raw, ",")
	tag, ok := savegame.ParseTag(parts[0])
	if !ok || tag == savegame.TagEnd || tag == savegame.TagTypeID {
		return field{}, fmt.Errorf("unknown tag %q", parts[0])
	}
	if tag.Retired() {
		return field{}, fmt.Errorf("retired tag %q", parts[0])
	}
	o, err := parseOptions(parts[1:])
	if err != nil {
		return field{}, err
	}
	f := field{name: sf.Name, tag: tag, length: o.length}

	if o.category != "" {
		f.category, err = catalog.ParseCategory(o.category)
		if err != nil {
			return field{}, err
		}
	}
	if o.enum != "" {
		e, ok := savegame.ParseEnum(o.enum)
		if !ok {
			return field{}, fmt.Errorf("unknown enum %q", o.enum)
		}
		f.enum = e
	}

	t := sf.Type
	switch {
	case t == bitArrayType:
		f.kind = kindBits
		return f, nil
	case t == catalogIndex || (o.category != "" && t.Kind() == reflect.Int32):
		if o.category == "" {
			return field{}, fmt.Errorf("content index without category")
		}
		f.kind = kindIndex
		f.def = int64(catalog.None)
		return f, parseIntDefault(&f, o)
	case o.enum != "":
		if t.Kind() != reflect.Int32 {
			return field{}, fmt.Errorf("enum field must be int32, got %s", t)
		}
		f.kind = kindEnum
		return f, parseIntDefault(&f, o)
	}

	switch t.Kind() {
	case reflect.Bool:
		f.kind = kindBool
		if o.hasDef {
			f.defBool, err = strconv.ParseBool(o.def)
		}
		return f, err
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f.kind = kindInt
		return f, parseIntDefault(&f, o)
	case reflect.String:
		f.kind = kindString
		if o.wide {
			f.kind = kindWString
		}
		f.defStr = o.def
		return f, nil
	case reflect.Struct:
		f.kind = kindObject
		return f, nil
	case reflect.Pointer:
		if t.Elem().Kind() != reflect.Struct {
			return field{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
		}
		f.kind = kindPointer
		return f, nil
	case reflect.Interface:
		f.kind = kindInterface
		return f, nil
	case reflect.Slice:
		return sliceField(f, t, o)
	default:
		return field{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func sliceField(f field, t reflect.Type, o options) (field, error) {
	elem := t.Elem()
	if elem.Kind() == reflect.Struct && elem != bitArrayType {
		f.kind = kindObjects
		return f, nil
	}
	ops, ok := sliceOpsByElem[elem]
	if !ok {
		return field{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	f.ops = ops
	switch {
	case o.category != "":
		f.kind = kindCategoryArray
	case o.sparse:
		f.kind = kindSparse
	default:
		return field{}, fmt.Errorf("integer slice needs sparse or category")
	}
	return f, parseIntDefault(&f, o)
}

func parseIntDefault(f *field, o options) error {
	if !o.hasDef {
		return nil
	}
	def, err := strconv.ParseInt(o.def, 0, 64)
	if err != nil {
		return fmt.Errorf("bad default %q", o.def)
	}
	f.def = def
	return nil
}
