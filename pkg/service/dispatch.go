// Динамическая диспетчеризация вызовов методов по имени.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// FunctionCall — вызов метода в формате function-calling API:
// имя метода и аргументы одной JSON-строкой.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Call разбирает JSON-аргументы и выполняет вызов.
func (c *Container) Call(ctx context.Context, fc FunctionCall) (any, error) {
	args := make(map[string]any)
	if fc.Arguments != "" {
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to parse arguments for '%s': %w", fc.Name, err)
		}
	}
	return c.Invoke(ctx, fc.Name, args)
}

// Invoke вызывает зарегистрированный метод по имени.
//
// Отсутствующие в args параметры получают нулевое значение своего типа;
// лишние ключи в args — ошибка. Если последнее возвращаемое значение
// метода — error и оно не nil, Invoke возвращает его как ошибку.
func (c *Container) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	c.mu.RLock()
	idx, ok := c.methods[name]
	if !ok {
		c.mu.RUnlock()
		return nil, fmt.Errorf("'%s': %w", name, ErrUnknownAction)
	}
	entry := c.services[idx]
	doc := entry.doc[name]
	method := entry.value.MethodByName(name)
	c.mu.RUnlock()

	mt := method.Type()

	known := make(map[string]bool, len(doc.Params))
	for _, p := range doc.Params {
		known[p] = true
	}
	for k := range args {
		if !known[k] {
			return nil, fmt.Errorf("method '%s': unexpected argument '%s'", name, k)
		}
	}

	in := make([]reflect.Value, 0, mt.NumIn())
	paramIdx := 0
	for i := 0; i < mt.NumIn(); i++ {
		pt := mt.In(i)
		if i == 0 && pt == ctxType {
			in = append(in, reflect.ValueOf(ctx))
			continue
		}
		if paramIdx >= len(doc.Params) {
			return nil, fmt.Errorf("method '%s': %d parameter names declared, signature has more", name, len(doc.Params))
		}
		pname := doc.Params[paramIdx]
		paramIdx++

		raw, present := args[pname]
		if !present {
			in = append(in, reflect.Zero(pt))
			continue
		}
		v, err := convertArg(raw, pt)
		if err != nil {
			return nil, fmt.Errorf("method '%s' argument '%s': %w", name, pname, err)
		}
		in = append(in, v)
	}

	results := method.Call(in)
	return splitResults(results)
}

// convertArg приводит JSON-значение к типу параметра.
func convertArg(raw any, pt reflect.Type) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(pt), nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Type() == pt {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(pt) {
		// JSON-числа приходят как float64, строки перечислений —
		// как string; ConvertibleTo покрывает оба случая
		if rv.Kind() == reflect.String && pt.Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("cannot use string as %s", pt)
		}
		return rv.Convert(pt), nil
	}

	// Структуры и срезы — через JSON round-trip
	data, err := json.Marshal(raw)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(pt)
	if err := json.Unmarshal(data, out.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot convert to %s: %w", pt, err)
	}
	return out.Elem(), nil
}

// splitResults отделяет трейлинг-error от полезных результатов.
func splitResults(results []reflect.Value) (any, error) {
	if len(results) == 0 {
		return nil, nil
	}

	last := results[len(results)-1]
	if last.Type() == errType {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		results = results[:len(results)-1]
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0].Interface(), nil
	default:
		out := make([]any, len(results))
		for i, r := range results {
			out[i] = r.Interface()
		}
		return out, nil
	}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()
