// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fieldcodec serializes tagged structs through savegame scopes.
//
// Every exported field carrying a `save` struct tag is written as the
// tagged field named by the tag, and elided when it equals its default:
//
//	type Unit struct {
//		ID     int32         `save:"unit.id"`
//		Type   catalog.Index `save:"unit.type,category=unit"`
//		Facing int32         `save:"unit.facing,enum=direction,default=-1"`
//		Name   string        `save:"unit.name,wide"`
//		AI     UnitAI        `save:"unit.ai"`
//	}
//
// Options: default=<value>, category=<name> (content indices and arrays
// indexed by content), enum=<name>, wide, sparse, bits=<n> (size of an
// elided bit array), len=<n> (size of an elided sparse array). Without a
// size an elided array keeps the length the destination already has. Nested structs, struct pointers and slices of structs
// become objects; interface fields become objects carrying the registered
// type ID of their dynamic type.
package fieldcodec

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/luxfi/savegame"
	"github.com/luxfi/savegame/catalog"
)

const (
	// DefaultMaxSliceLen bounds the number of objects in one repeated field.
	DefaultMaxSliceLen = 1 << 20

	// noTypeID is never assigned; it marks an object without a type ID.
	noTypeID = ^uint32(0)
)

var (
	ErrCantRegisterType    = errors.New("can't register type")
	ErrTypeNotFound        = errors.New("type not found")
	ErrUnsupportedType     = errors.New("unsupported type")
	ErrBadFieldTag         = errors.New("bad field tag")
	ErrNeedPointer         = errors.New("need non-nil pointer to struct")
	ErrMaxSliceLenExceeded = errors.New("max slice length exceeded")
)

// ClassTyper is implemented by structs that assign a class type to the
// scope they are serialized in.
type ClassTyper interface {
	SaveClass() savegame.ClassType
}

// Codec writes and reads tagged structs. It is safe for concurrent use.
type Codec struct {
	lock        sync.RWMutex
	maxSliceLen int
	nextTypeID  uint32
	typeToID    map[reflect.Type]uint32
	idToType    map[uint32]reflect.Type
	plans       sync.Map // reflect.Type -> *plan
}

// New returns a codec that rejects repeated fields longer than maxSliceLen.
func New(maxSliceLen int) *Codec {
	return &Codec{
		maxSliceLen: maxSliceLen,
		typeToID:    make(map[reflect.Type]uint32),
		idToType:    make(map[uint32]reflect.Type),
	}
}

// NewDefault returns a codec with DefaultMaxSliceLen.
func NewDefault() *Codec {
	return New(DefaultMaxSliceLen)
}

// SkipRegistrations skips the next num type IDs. Type IDs are persisted, so
// a type that is no longer registered must keep its ID reserved.
func (c *Codec) SkipRegistrations(num int) {
	c.lock.Lock()
	c.nextTypeID += uint32(num)
	c.lock.Unlock()
}

// RegisterType assigns the next type ID to the type of val, which may then
// be stored in interface fields.
func (c *Codec) RegisterType(val any) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	t := reflect.TypeOf(val)
	if t == nil {
		return fmt.Errorf("%w: nil", ErrCantRegisterType)
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() != reflect.Struct || t.Kind() != reflect.Pointer && t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %v is not a struct", ErrCantRegisterType, t)
	}
	if _, exists := c.typeToID[t]; exists {
		return fmt.Errorf("%w: %v already registered", ErrCantRegisterType, t)
	}

	typeID := c.nextTypeID
	c.typeToID[t] = typeID
	c.idToType[typeID] = t
	c.nextTypeID++
	return nil
}

func (c *Codec) planFor(t reflect.Type) (*plan, error) {
	if p, ok := c.plans.Load(t); ok {
		return p.(*plan), nil
	}
	p, err := buildPlan(t)
	if err != nil {
		return nil, err
	}
	actual, _ := c.plans.LoadOrStore(t, p)
	return actual.(*plan), nil
}

// Marshal writes the tagged fields of val, a struct or a pointer to one,
// into scope w.
func (c *Codec) Marshal(w *savegame.Writer, val any) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ErrNeedPointer
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %v", ErrUnsupportedType, rv.Kind())
	}
	return c.marshalStruct(w, rv)
}

// Unmarshal reads the tagged fields of scope r into val, which must be a
// non-nil pointer to a struct. Elided fields are set to their defaults.
func (c *Codec) Unmarshal(r *savegame.Reader, val any) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNeedPointer
	}
	return c.unmarshalStruct(r, rv.Elem())
}

// Encode writes val as the root object of a save against cat.
func (c *Codec) Encode(cat catalog.Catalog, cfg savegame.Config, val any) ([]byte, error) {
	enc := savegame.NewEncoder(cat, cfg)
	w := enc.Writer()
	if err := c.Marshal(&w, val); err != nil {
		return nil, err
	}
	return enc.Bytes()
}

// Decode reads the root object of save data into val and returns the
// decoder for inspection of the pass.
func (c *Codec) Decode(cat catalog.Catalog, cfg savegame.Config, data []byte, val any) (*savegame.Decoder, error) {
	dec := savegame.NewDecoder(cat, cfg)
	if err := dec.LoadBytes(data); err != nil {
		return nil, err
	}
	r := dec.Reader()
	if err := c.Unmarshal(&r, val); err != nil {
		return dec, err
	}
	return dec, dec.Finish()
}

func (c *Codec) marshalStruct(w *savegame.Writer, rv reflect.Value) error {
	p, err := c.planFor(rv.Type())
	if err != nil {
		return err
	}
	if p.class != savegame.ClassNone {
		w.AssignClassType(p.class)
	}
	for i := range p.fields {
		f := &p.fields[i]
		if err := c.marshalField(w, f, rv.Field(f.index)); err != nil {
			return err
		}
	}
	return w.Err()
}

func (c *Codec) marshalField(w *savegame.Writer, f *field, rv reflect.Value) error {
	switch f.kind {
	case kindBool:
		w.WriteTaggedBool(f.tag, rv.Bool(), f.defBool)
	case kindInt:
		writeInt(w, f, rv)
	case kindIndex:
		w.WriteTaggedContentIndex(f.tag, f.category, catalog.Index(rv.Int()), catalog.Index(f.def))
	case kindEnum:
		w.WriteTaggedEnum(f.tag, f.enum, int32(rv.Int()), int32(f.def))
	case kindString:
		w.WriteTaggedString(f.tag, rv.String(), f.defStr)
	case kindWString:
		w.WriteTaggedWString(f.tag, rv.String(), f.defStr)
	case kindBits:
		w.WriteTaggedBitArray(f.tag, rv.Interface().(savegame.BitArray))
	case kindSparse:
		f.ops.writeSparse(w, f.tag, rv.Interface(), f.def)
	case kindCategoryArray:
		f.ops.writeCategory(w, f.tag, f.category, rv.Interface(), f.def)
	case kindObject:
		return w.WriteObject(f.tag, func(child savegame.Writer) error {
			return c.marshalStruct(&child, rv)
		})
	case kindPointer:
		if rv.IsNil() {
			return nil
		}
		return w.WriteObject(f.tag, func(child savegame.Writer) error {
			return c.marshalStruct(&child, rv.Elem())
		})
	case kindObjects:
		if rv.Len() > c.maxSliceLen {
			return fmt.Errorf("%w: %s has %d objects", ErrMaxSliceLenExceeded, f.name, rv.Len())
		}
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			err := w.WriteObject(f.tag, func(child savegame.Writer) error {
				return c.marshalStruct(&child, elem)
			})
			if err != nil {
				return err
			}
		}
	case kindInterface:
		return c.marshalInterface(w, f, rv)
	}
	return w.Err()
}

func (c *Codec) marshalInterface(w *savegame.Writer, f *field, rv reflect.Value) error {
	if rv.IsNil() {
		return nil
	}
	elem := rv.Elem()
	c.lock.RLock()
	typeID, ok := c.typeToID[elem.Type()]
	c.lock.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %v", ErrTypeNotFound, elem.Type())
	}
	if elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil
		}
		elem = elem.Elem()
	}
	return w.WriteObject(f.tag, func(child savegame.Writer) error {
		child.WriteTaggedUint32(savegame.TagTypeID, typeID, noTypeID)
		return c.marshalStruct(&child, elem)
	})
}

func writeInt(w *savegame.Writer, f *field, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Int8:
		w.WriteTaggedInt8(f.tag, int8(rv.Int()), int8(f.def))
	case reflect.Int16:
		w.WriteTaggedInt16(f.tag, int16(rv.Int()), int16(f.def))
	case reflect.Int32:
		w.WriteTaggedInt32(f.tag, int32(rv.Int()), int32(f.def))
	case reflect.Int64:
		w.WriteTaggedInt64(f.tag, rv.Int(), f.def)
	case reflect.Uint8:
		w.WriteTaggedUint8(f.tag, uint8(rv.Uint()), uint8(f.def))
	case reflect.Uint16:
		w.WriteTaggedUint16(f.tag, uint16(rv.Uint()), uint16(f.def))
	case reflect.Uint32:
		w.WriteTaggedUint32(f.tag, uint32(rv.Uint()), uint32(f.def))
	case reflect.Uint64:
		w.WriteTaggedUint64(f.tag, rv.Uint(), uint64(f.def))
	}
}

func (c *Codec) unmarshalStruct(r *savegame.Reader, rv reflect.Value) error {
	p, err := c.planFor(rv.Type())
	if err != nil {
		return err
	}
	if p.class != savegame.ClassNone {
		r.AssignClassType(p.class)
	}
	for i := range p.fields {
		f := &p.fields[i]
		if err := c.unmarshalField(r, f, rv.Field(f.index)); err != nil {
			return err
		}
	}
	return r.Err()
}

func (c *Codec) unmarshalField(r *savegame.Reader, f *field, rv reflect.Value) error {
	switch f.kind {
	case kindBool:
		rv.SetBool(r.ReadTaggedBool(f.tag, f.defBool))
	case kindInt:
		readInt(r, f, rv)
	case kindIndex:
		rv.SetInt(int64(r.ReadTaggedContentIndex(f.tag, f.category, catalog.Index(f.def))))
	case kindEnum:
		rv.SetInt(int64(r.ReadTaggedEnum(f.tag, f.enum, int32(f.def))))
	case kindString:
		rv.SetString(r.ReadTaggedString(f.tag, f.defStr))
	case kindWString:
		rv.SetString(r.ReadTaggedWString(f.tag, f.defStr))
	case kindBits:
		n := f.length
		if n == 0 {
			n = rv.Interface().(savegame.BitArray).Len()
		}
		rv.Set(reflect.ValueOf(r.ReadTaggedBitArray(f.tag, n)))
	case kindSparse:
		n := f.length
		if n == 0 {
			n = rv.Len()
		}
		rv.Set(reflect.ValueOf(f.ops.readSparse(r, f.tag, n, f.def)))
	case kindCategoryArray:
		rv.Set(reflect.ValueOf(f.ops.readCategory(r, f.tag, f.category, f.def)))
	case kindObject:
		found, err := r.ReadObject(f.tag, func(child savegame.Reader) error {
			return c.unmarshalStruct(&child, rv)
		})
		if err == nil && !found {
			rv.Set(reflect.Zero(rv.Type()))
		}
		return err
	case kindPointer:
		elem := reflect.New(rv.Type().Elem())
		found, err := r.ReadObject(f.tag, func(child savegame.Reader) error {
			return c.unmarshalStruct(&child, elem.Elem())
		})
		if err != nil {
			return err
		}
		if found {
			rv.Set(elem)
		} else {
			rv.Set(reflect.Zero(rv.Type()))
		}
	case kindObjects:
		return c.unmarshalObjects(r, f, rv)
	case kindInterface:
		return c.unmarshalInterface(r, f, rv)
	}
	return r.Err()
}

func (c *Codec) unmarshalObjects(r *savegame.Reader, f *field, rv reflect.Value) error {
	slice := reflect.Zero(rv.Type())
	for {
		elem := reflect.New(rv.Type().Elem()).Elem()
		found, err := r.ReadObject(f.tag, func(child savegame.Reader) error {
			return c.unmarshalStruct(&child, elem)
		})
		if err != nil {
			return err
		}
		if !found {
			break
		}
		if slice.Len() >= c.maxSliceLen {
			return fmt.Errorf("%w: %s", ErrMaxSliceLenExceeded, f.name)
		}
		slice = reflect.Append(slice, elem)
	}
	rv.Set(slice)
	return r.Err()
}

func (c *Codec) unmarshalInterface(r *savegame.Reader, f *field, rv reflect.Value) error {
	var value reflect.Value
	found, err := r.ReadObject(f.tag, func(child savegame.Reader) error {
		typeID := child.ReadTaggedUint32(savegame.TagTypeID, noTypeID)
		c.lock.RLock()
		t, ok := c.idToType[typeID]
		c.lock.RUnlock()
		if !ok {
			return fmt.Errorf("%w: type ID %d in %s", ErrTypeNotFound, typeID, f.tag)
		}
		if !t.AssignableTo(rv.Type()) {
			return fmt.Errorf("%w: %v does not implement %v", ErrUnsupportedType, t, rv.Type())
		}
		if t.Kind() == reflect.Pointer {
			value = reflect.New(t.Elem())
			return c.unmarshalStruct(&child, value.Elem())
		}
		value = reflect.New(t).Elem()
		return c.unmarshalStruct(&child, value)
	})
	if err != nil {
		return err
	}
	if found {
		rv.Set(value)
	} else {
		rv.Set(reflect.Zero(rv.Type()))
	}
	return r.Err()
}

func readInt(r *savegame.Reader, f *field, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Int8:
		rv.SetInt(int64(r.ReadTaggedInt8(f.tag, int8(f.def))))
	case reflect.Int16:
		rv.SetInt(int64(r.ReadTaggedInt16(f.tag, int16(f.def))))
	case reflect.Int32:
		rv.SetInt(int64(r.ReadTaggedInt32(f.tag, int32(f.def))))
	case reflect.Int64:
		rv.SetInt(r.ReadTaggedInt64(f.tag, f.def))
	case reflect.Uint8:
		rv.SetUint(uint64(r.ReadTaggedUint8(f.tag, uint8(f.def))))
	case reflect.Uint16:
		rv.SetUint(uint64(r.ReadTaggedUint16(f.tag, uint16(f.def))))
	case reflect.Uint32:
		rv.SetUint(uint64(r.ReadTaggedUint32(f.tag, uint32(f.def))))
	case reflect.Uint64:
		rv.SetUint(r.ReadTaggedUint64(f.tag, uint64(f.def)))
	}
}
