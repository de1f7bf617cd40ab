// Package service — рефлексивный контейнер сервисов.
//
// Контейнер принимает обычные Go-объекты, генерирует по их экспортируемым
// методам структурированные дескрипторы (ToolDescriptor) и диспетчеризует
// вызовы по имени метода с JSON-аргументами. Документация методов
// объявляется при регистрации (ServiceDoc): Go-рефлексия не хранит ни имён
// параметров, ни значений по умолчанию, поэтому их несёт MethodDoc.
package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Enum — перечисление, допустимые значения которого попадают в схему
// параметра. Реализуется именованным строковым типом.
type Enum interface {
	// Members возвращает имена членов в порядке объявления
	Members() []string
}

// MethodDoc — документация одного метода, объявляемая при регистрации.
type MethodDoc struct {
	// Doc — текст документации. Первая часть (до первой строки,
	// начинающейся с ":") становится описанием инструмента; строки
	// вида ":param <имя>: <текст>" дают описания параметров.
	Doc string

	// Params — имена параметров в порядке объявления (без receiver
	// и без context.Context)
	Params []string

	// Defaults — число параметров с значением по умолчанию,
	// считая с конца списка. Такие параметры не попадают в required.
	Defaults int
}

// ServiceDoc — документация всех методов сервиса, по имени метода.
type ServiceDoc map[string]MethodDoc

type serviceEntry struct {
	value reflect.Value
	doc   ServiceDoc
}

// Container хранит зарегистрированные сервисы и их документацию.
// Потокобезопасен.
type Container struct {
	mu       sync.RWMutex
	services []serviceEntry
	methods  map[string]int // имя метода -> индекс сервиса
}

// NewContainer создаёт пустой контейнер.
func NewContainer() *Container {
	return &Container{
		methods: make(map[string]int),
	}
}

// Register добавляет сервис и документацию его методов.
//
// Регистрируются все экспортируемые методы, перечисленные в doc.
// Метод с именем, уже занятым другим сервисом, вызывает ошибку.
func (c *Container) Register(svc any, doc ServiceDoc) error {
	if svc == nil {
		return fmt.Errorf("cannot register nil service")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	v := reflect.ValueOf(svc)
	for name := range doc {
		m := v.MethodByName(name)
		if !m.IsValid() {
			return fmt.Errorf("service %s has no method '%s'", v.Type(), name)
		}
		if _, exists := c.methods[name]; exists {
			return fmt.Errorf("method '%s' already registered", name)
		}
	}

	idx := len(c.services)
	c.services = append(c.services, serviceEntry{value: v, doc: doc})
	for name := range doc {
		c.methods[name] = idx
	}
	return nil
}

// Describe генерирует дескрипторы всех зарегистрированных методов.
//
// Каталог собирается целиком или никак: первая же проблема (метод без
// документации, параметр без пригодного типа) прерывает генерацию
// с ошибкой.
func (c *Container) Describe() ([]ToolDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []ToolDescriptor
	for _, entry := range c.services {
		// Обходим методы типа в стабильном порядке рефлексии
		t := entry.value.Type()
		for i := 0; i < t.NumMethod(); i++ {
			name := t.Method(i).Name
			doc, ok := entry.doc[name]
			if !ok {
				continue
			}
			desc, err := describeMethod(name, entry.value.Method(i), doc)
			if err != nil {
				return nil, err
			}
			out = append(out, desc)
		}
	}
	return out, nil
}

// describeMethod строит дескриптор одного метода.
func describeMethod(name string, method reflect.Value, doc MethodDoc) (ToolDescriptor, error) {
	if strings.TrimSpace(doc.Doc) == "" {
		return ToolDescriptor{}, fmt.Errorf("method '%s': %w", name, ErrMissingDocumentation)
	}

	description, paramDocs := parseDoc(doc.Doc)

	mt := method.Type()
	inputs := methodInputs(mt)
	if len(inputs) != len(doc.Params) {
		return ToolDescriptor{}, fmt.Errorf(
			"method '%s': %d parameter names declared, signature has %d", name, len(doc.Params), len(inputs))
	}
	if doc.Defaults < 0 || doc.Defaults > len(doc.Params) {
		return ToolDescriptor{}, fmt.Errorf("method '%s': invalid defaults count %d", name, doc.Defaults)
	}

	schema := ParameterSchema{Type: "object"}
	for i, pt := range inputs {
		pname := doc.Params[i]

		if pt.Kind() == reflect.Interface {
			return ToolDescriptor{}, fmt.Errorf("method '%s' parameter '%s': %w", name, pname, ErrMissingTypeAnnotation)
		}

		info := ParamInfo{
			Type:        strings.ToLower(pt.Name()),
			Description: paramDocs[pname],
		}
		if info.Type == "" {
			info.Type = strings.ToLower(pt.Kind().String())
		}
		if members := enumMembers(pt); members != nil {
			info.Enum = members
		}
		schema.Properties = append(schema.Properties, Property{Name: pname, ParamInfo: info})
	}

	required := doc.Params[:len(doc.Params)-doc.Defaults]
	schema.Required = append([]string{}, required...)

	return ToolDescriptor{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}, nil
}

// methodInputs возвращает типы параметров метода, пропуская
// ведущий context.Context.
func methodInputs(mt reflect.Type) []reflect.Type {
	var out []reflect.Type
	for i := 0; i < mt.NumIn(); i++ {
		pt := mt.In(i)
		if i == 0 && pt == ctxType {
			continue
		}
		out = append(out, pt)
	}
	return out
}

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

// enumMembers возвращает члены перечисления или nil, если тип —
// не перечисление.
func enumMembers(t reflect.Type) []string {
	if !t.Implements(enumType) {
		return nil
	}
	v := reflect.Zero(t).Interface().(Enum)
	return v.Members()
}

// parseDoc разбирает текст документации: описание до первого маркера
// и карта описаний параметров по маркерам ":param <имя>:".
//
// Описание параметра тянется до следующего маркера или конца текста,
// поэтому многострочные описания сохраняются целиком.
func parseDoc(doc string) (description string, params map[string]string) {
	params = make(map[string]string)

	lines := strings.Split(doc, "\n")
	var descLines []string
	inDesc := true
	current := "" // имя параметра, чьё описание сейчас накапливается
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ":") {
			inDesc = false
			current = ""
			if rest, ok := strings.CutPrefix(trimmed, ":param "); ok {
				name, text, found := strings.Cut(rest, ":")
				if found {
					current = strings.TrimSpace(name)
					params[current] = strings.TrimSpace(text)
				}
			}
			continue
		}
		if inDesc {
			descLines = append(descLines, trimmed)
			continue
		}
		// Строки-продолжения после маркера относятся к его параметру
		if current != "" && trimmed != "" {
			params[current] += "\n" + trimmed
		}
	}

	description = strings.TrimSpace(strings.Join(descLines, "\n"))
	return description, params
}
