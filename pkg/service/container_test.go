package service

import (
	"context"
	"errors"
	"testing"
)

// Color — перечисление для тестов enum параметров.
type Color string

func (Color) Members() []string {
	return []string{"red", "green", "blue"}
}

// paintService is a documented test service.
type paintService struct{}

func (paintService) Paint(item string, color Color, coats int) (string, error) {
	return item + " painted " + string(color), nil
}

func (paintService) Ping() string {
	return "pong"
}

func (paintService) WithContext(ctx context.Context, name string) string {
	return "hello " + name
}

func (paintService) Untypable(value any) string {
	return "never described"
}

func paintDoc() ServiceDoc {
	return ServiceDoc{
		"Paint": {
			Doc: `Paint an item with the given color.
:param item: the item to paint
:param color: the color to use
:param coats: how many coats to apply`,
			Params:   []string{"item", "color", "coats"},
			Defaults: 1,
		},
	}
}

// TestDescribeGeneratesDescriptor verifies the full descriptor shape.
func TestDescribeGeneratesDescriptor(t *testing.T) {
	c := NewContainer()
	if err := c.Register(paintService{}, paintDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	descs, err := c.Describe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descs) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(descs))
	}

	d := descs[0]
	if d.Name != "Paint" {
		t.Errorf("expected name 'Paint', got %q", d.Name)
	}
	if d.Description != "Paint an item with the given color." {
		t.Errorf("description must stop before the first ':' line, got %q", d.Description)
	}
	if d.Parameters.Type != "object" {
		t.Errorf("expected object schema, got %q", d.Parameters.Type)
	}

	// Properties keep declaration order
	wantOrder := []string{"item", "color", "coats"}
	if len(d.Parameters.Properties) != len(wantOrder) {
		t.Fatalf("expected %d properties, got %d", len(wantOrder), len(d.Parameters.Properties))
	}
	for i, name := range wantOrder {
		if d.Parameters.Properties[i].Name != name {
			t.Errorf("property %d: expected %q, got %q", i, name, d.Parameters.Properties[i].Name)
		}
	}

	item, _ := d.Parameters.Property("item")
	if item.Type != "string" {
		t.Errorf("item type: expected 'string', got %q", item.Type)
	}
	if item.Description != "the item to paint" {
		t.Errorf("item description from ':param' marker, got %q", item.Description)
	}

	color, _ := d.Parameters.Property("color")
	if color.Type != "color" {
		t.Errorf("enum type tag must be the lowercased type name, got %q", color.Type)
	}
	if len(color.Enum) != 3 || color.Enum[0] != "red" || color.Enum[2] != "blue" {
		t.Errorf("enum members in declaration order, got %v", color.Enum)
	}

	coats, _ := d.Parameters.Property("coats")
	if coats.Type != "int" {
		t.Errorf("coats type: expected 'int', got %q", coats.Type)
	}
	if coats.Enum != nil {
		t.Errorf("non-enum parameter must not carry enum, got %v", coats.Enum)
	}

	// Trailing defaulted parameter is not required
	if len(d.Parameters.Required) != 2 || d.Parameters.Required[0] != "item" || d.Parameters.Required[1] != "color" {
		t.Errorf("required must exclude defaulted tail, got %v", d.Parameters.Required)
	}
}

// TestDescribeMultilineParamDescription verifies a ':param' description
// spans until the next marker, continuation lines included.
func TestDescribeMultilineParamDescription(t *testing.T) {
	c := NewContainer()
	err := c.Register(paintService{}, ServiceDoc{
		"Paint": {
			Doc: `Paint an item with the given color.
:param item: the item to paint,
    including any decorative trim
:param color: the color to use
:param coats: how many coats to apply`,
			Params: []string{"item", "color", "coats"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	descs, err := c.Describe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, _ := descs[0].Parameters.Property("item")
	want := "the item to paint,\nincluding any decorative trim"
	if item.Description != want {
		t.Errorf("multiline description truncated:\nwant %q\ngot  %q", want, item.Description)
	}

	// Следующий маркер закрывает описание предыдущего параметра
	color, _ := descs[0].Parameters.Property("color")
	if color.Description != "the color to use" {
		t.Errorf("next marker must end the previous description, got %q", color.Description)
	}
}

// TestDescribeMissingDocumentation verifies the empty-doc error.
func TestDescribeMissingDocumentation(t *testing.T) {
	c := NewContainer()
	err := c.Register(paintService{}, ServiceDoc{
		"Ping": {Doc: "", Params: nil},
	})
	if err != nil {
		t.Fatalf("registration must succeed: %v", err)
	}

	_, err = c.Describe()
	if !errors.Is(err, ErrMissingDocumentation) {
		t.Fatalf("expected ErrMissingDocumentation, got %v", err)
	}
}

// TestDescribeUntypedParameter verifies interface-typed params are rejected.
func TestDescribeUntypedParameter(t *testing.T) {
	c := NewContainer()
	err := c.Register(paintService{}, ServiceDoc{
		"Untypable": {
			Doc:    "Does something untypable.",
			Params: []string{"value"},
		},
	})
	if err != nil {
		t.Fatalf("registration must succeed: %v", err)
	}

	_, err = c.Describe()
	if !errors.Is(err, ErrMissingTypeAnnotation) {
		t.Fatalf("expected ErrMissingTypeAnnotation, got %v", err)
	}
}

// TestDescribeAllOrNothing verifies one bad method fails the whole catalog.
func TestDescribeAllOrNothing(t *testing.T) {
	c := NewContainer()
	doc := paintDoc()
	doc["Ping"] = MethodDoc{Doc: ""}
	if err := c.Register(paintService{}, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	descs, err := c.Describe()
	if err == nil {
		t.Fatal("expected error")
	}
	if descs != nil {
		t.Errorf("no partial catalog on error, got %v", descs)
	}
}

// TestDescribeSkipsContextParameter verifies a leading context.Context
// does not appear in the schema.
func TestDescribeSkipsContextParameter(t *testing.T) {
	c := NewContainer()
	err := c.Register(paintService{}, ServiceDoc{
		"WithContext": {
			Doc: `Greet someone.
:param name: who to greet`,
			Params: []string{"name"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	descs, err := c.Describe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := descs[0].Parameters.Properties
	if len(props) != 1 || props[0].Name != "name" {
		t.Errorf("context must be skipped, got %+v", props)
	}
}

// TestRegisterUnknownMethod verifies doc entries must match real methods.
func TestRegisterUnknownMethod(t *testing.T) {
	c := NewContainer()
	err := c.Register(paintService{}, ServiceDoc{
		"Missing": {Doc: "Ghost method."},
	})
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
}

// TestRegisterDuplicateMethod verifies method names are unique across services.
func TestRegisterDuplicateMethod(t *testing.T) {
	c := NewContainer()
	if err := c.Register(paintService{}, paintDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Register(paintService{}, paintDoc()); err == nil {
		t.Fatal("expected error for duplicate method name")
	}
}

// TestRegisterParamCountMismatch verifies declared names must match the signature.
func TestRegisterParamCountMismatch(t *testing.T) {
	c := NewContainer()
	err := c.Register(paintService{}, ServiceDoc{
		"Ping": {
			Doc:    "Ping the service.",
			Params: []string{"phantom"},
		},
	})
	if err != nil {
		t.Fatalf("registration must succeed: %v", err)
	}

	if _, err := c.Describe(); err == nil {
		t.Fatal("expected parameter count mismatch error")
	}
}
