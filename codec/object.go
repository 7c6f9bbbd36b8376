package codec

import (
	"fmt"
	"reflect"
)

// ClassDescriptor identifies a streamable class: it instantiates the
// concrete type and enumerates its named properties in a stable,
// deterministic order. The order must be identical on the encode and decode
// sides; it is the descriptor's responsibility, not the stream's.
type ClassDescriptor interface {
	ClassName() string
	New() any
	Properties() []Property
}

// Property is a named, settable slot of a class instance.
type Property interface {
	Name() string
	Get(instance any) any
	Set(instance any, val any) error
}

// WriteObject streams a reflective instance: its class name through the
// class-name dictionary, then each property through the generic value
// protocol. A nil instance streams as the empty class name.
func (s *Stream) WriteObject(instance any) error {
	if s.mode != ModeWrite {
		return ErrReadMode
	}

	if instance == nil {
		return s.classNames.Write("")
	}
	v := reflect.ValueOf(instance)
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return s.classNames.Write("")
	}

	entry, ok := classesByType[v.Type()]
	if !ok {
		return UnstreamableTypeError{Type: v.Type().String()}
	}
	descriptor, className := entry.descriptor, entry.name

	if err := s.classNames.Write(className); err != nil {
		return err
	}

	for _, property := range descriptor.Properties() {
		if err := s.WriteValue(property.Get(instance)); err != nil {
			return fmt.Errorf("class %q, property %q: %w", className, property.Name(), err)
		}
	}

	return nil
}

// ReadObject streams a reflective instance in, consulting the class registry
// to instantiate the concrete type. An unknown class name is a fatal decode
// error; no partial object is returned.
func (s *Stream) ReadObject() (any, error) {
	if s.mode != ModeRead {
		return nil, ErrWriteMode
	}

	className, err := s.classNames.Read()
	if err != nil {
		return nil, err
	}
	if className == "" {
		return nil, nil
	}

	descriptor, ok := classDescriptorFor(className)
	if !ok {
		return nil, UnknownClassError{Name: className}
	}

	instance := descriptor.New()
	for _, property := range descriptor.Properties() {
		val, err := s.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("class %q, property %q: %w", className, property.Name(), err)
		}
		if err := property.Set(instance, val); err != nil {
			return nil, fmt.Errorf("class %q, property %q: %w", className, property.Name(), err)
		}
	}

	return instance, nil
}

// structDescriptor is the reference ClassDescriptor implementation, walking
// the exported fields of a struct in declaration order via reflection.
type structDescriptor struct {
	name       string
	structType reflect.Type
	properties []Property
}

// NewStructDescriptor builds a descriptor for the struct type of prototype
// (a struct value or pointer to struct). Exported fields become properties
// in declaration order, which is identical on both sides for the same build.
func NewStructDescriptor(name string, prototype any) (ClassDescriptor, error) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("struct descriptor: %v is not a struct", t)
	}

	descriptor := &structDescriptor{name: name, structType: t}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		descriptor.properties = append(descriptor.properties, &fieldProperty{
			name:  field.Name,
			index: i,
		})
	}

	return descriptor, nil
}

func (d *structDescriptor) ClassName() string {
	return d.name
}

func (d *structDescriptor) New() any {
	return reflect.New(d.structType).Interface()
}

func (d *structDescriptor) Properties() []Property {
	return d.properties
}

type fieldProperty struct {
	name  string
	index int
}

func (p *fieldProperty) Name() string {
	return p.name
}

func (p *fieldProperty) Get(instance any) any {
	return reflect.ValueOf(instance).Elem().Field(p.index).Interface()
}

func (p *fieldProperty) Set(instance any, val any) error {
	field := reflect.ValueOf(instance).Elem().Field(p.index)

	if val == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	v := reflect.ValueOf(val)
	if !v.Type().AssignableTo(field.Type()) {
		if !v.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("cannot assign %T to field %s (%v)", val, p.name, field.Type())
		}
		v = v.Convert(field.Type())
	}

	field.Set(v)
	return nil
}
